package httpapi

import (
	"io"
	"net/http"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/docerrors"
)

const maxUploadBytes = 64 << 20 // 64MB per PDF

// handleOutline handles POST /outline: either an uploaded file or a
// previously stored docId, both scoped to a storage_type partition.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, docerrors.NewInputError("invalid multipart form; %v", err))
		return
	}

	partition, err := resolvePartition(r.FormValue("storage_type"))
	if err != nil {
		writeErr(w, err)
		return
	}

	docID, path, err := s.resolveDocument(r, partition)
	if err != nil {
		writeErr(w, err)
		return
	}

	_, ol, err := extractOutline(path)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, OutlineResponse{
		DocID:   docID,
		Title:   ol.Title,
		Outline: outlineToDTO(ol),
	})
}

func resolvePartition(raw string) (blobstore.Partition, error) {
	if raw == "" {
		return blobstore.PartitionFresh, nil
	}
	p := blobstore.Partition(raw)
	for _, valid := range blobstore.Partitions {
		if p == valid {
			return p, nil
		}
	}
	return "", docerrors.NewInputError("unknown storage_type %q", raw)
}

// resolveDocument returns the on-disk path for a request that carries
// either an uploaded "file" part or a "docId" form field. An uploaded file
// is stored in partition first.
func (s *Server) resolveDocument(r *http.Request, partition blobstore.Partition) (docID, path string, err error) {
	file, header, ferr := r.FormFile("file")
	if ferr == nil {
		defer file.Close()
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			return "", "", docerrors.NewInputError("failed to read uploaded file; %v", rerr)
		}
		docID, err = s.store.Put(data, header.Filename, partition)
		if err != nil {
			return "", "", docerrors.NewPersistenceError("failed to store upload", err)
		}
		path, err = s.store.Get(docID, partition)
		return docID, path, err
	}

	docID = r.FormValue("docId")
	if docID == "" {
		return "", "", docerrors.NewInputError("file or docId required")
	}
	path, err = s.store.Get(docID, partition)
	if err != nil {
		return "", "", err
	}
	if !fileExists(path) {
		return "", "", docerrors.NewNotFoundError("docId %q not found in partition %q", docID, partition)
	}
	return docID, path, nil
}
