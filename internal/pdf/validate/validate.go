// Package validate checks that uploaded bytes are a well-formed PDF before
// the heavier font/outline/section pipeline runs against them.
package validate

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF parses and validates data as a PDF document, returning the page
// count on success.
func PDF(data []byte) (pageCount int, err error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("not a valid PDF; %w", err)
	}
	return pdfCtx.PageCount, nil
}
