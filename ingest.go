package uxio

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
)

// defaultMaxFieldBytes caps a single non-file form field. Fields are
// buffered in memory, so unlike file parts they need a hard limit.
const defaultMaxFieldBytes = 1 << 20

// copyBufSize is the chunk size for streaming file parts to the cache.
const copyBufSize = 32 * 1024

// ingest streams every part of a multipart request into the registry.
// File parts go to the cache directory without ever being buffered in
// memory; field parts are read into the fields map, last write wins.
//
// A client that disconnects mid-stream is not an error: the in-flight
// file record is marked Truncated and ingestion finishes with whatever
// arrived. Malformed multipart syntax and exceeded limits are request
// errors and abort ingestion.
func ingest(r *http.Request, uc *Context, maxFieldBytes, maxFileBytes int64) error {
	if maxFieldBytes <= 0 {
		maxFieldBytes = defaultMaxFieldBytes
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return wrapError(ErrMalformedRequest, err, "read multipart body")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// Client went away between parts.
			return nil
		}
		if err != nil {
			return wrapError(ErrMalformedRequest, err, "read multipart part")
		}

		if part.FormName() == "" {
			continue
		}

		if part.FileName() == "" {
			done, err := ingestField(part, uc, maxFieldBytes)
			if err != nil || done {
				return err
			}
			continue
		}

		done, err := ingestFile(part, uc, maxFileBytes)
		if err != nil || done {
			return err
		}
	}
}

// ingestField reads one non-file part into the fields map. The done
// result is true when the client disconnected mid-value and ingestion
// should stop without an error.
func ingestField(part *multipart.Part, uc *Context, maxFieldBytes int64) (done bool, err error) {
	value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return true, nil
	}
	if int64(len(value)) > maxFieldBytes {
		return false, newError(ErrTooLarge, "form field %q exceeds %d bytes", part.FormName(), maxFieldBytes)
	}
	uc.fields[part.FormName()] = string(value)
	return false, nil
}

// ingestFile streams one file part to the cache. The record is
// appended before the first byte is copied, so its Size grows live and
// a disconnect leaves a Truncated record rather than nothing.
func ingestFile(part *multipart.Part, uc *Context, maxFileBytes int64) (done bool, err error) {
	rec := &CachedFile{
		Field:        part.FormName(),
		OriginalName: part.FileName(),
		MIMEType:     part.Header.Get("Content-Type"),
		Encoding:     part.Header.Get("Content-Transfer-Encoding"),
	}

	f, path, err := uc.cache.create(cacheFileName(rec.Field, rec.OriginalName))
	if err != nil {
		return false, err
	}
	rec.CachePath = path
	uc.files = append(uc.files, rec)

	buf := make([]byte, copyBufSize)
	for {
		n, rerr := part.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				_ = f.Close()
				return false, wrapError(ErrInternal, werr, "write cache file %s", path)
			}
			rec.Size += int64(n)
			if maxFileBytes > 0 && rec.Size > maxFileBytes {
				_ = f.Close()
				return false, newError(ErrTooLarge, "file %q exceeds %d bytes", rec.OriginalName, maxFileBytes)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			// Client went away mid-part; keep what arrived.
			rec.Truncated = true
			_ = f.Close()
			return true, nil
		}
	}

	if err := f.Close(); err != nil {
		return false, wrapError(ErrInternal, err, "close cache file %s", path)
	}
	return false, nil
}
