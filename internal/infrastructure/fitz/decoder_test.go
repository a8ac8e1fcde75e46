package fitz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
)

// onePagePDF is a 200x100pt blank page. MuPDF repairs the missing xref.
const onePagePDF = `%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] >> endobj
trailer << /Root 1 0 R >>
%%EOF
`

func TestSniffPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n..."), true},
		{"leading junk", append([]byte("\xef\xbb\xbf\r\n"), []byte("%PDF-1.4")...), true},
		{"png", []byte("\x89PNG\r\n\x1a\n"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffPDF(tt.data))
		})
	}
}

func TestPDFOnly(t *testing.T) {
	assert.NoError(t, PDFOnly(usecase.DocumentSource{Name: "a.pdf", Data: []byte(onePagePDF)}))

	err := PDFOnly(usecase.DocumentSource{Name: "notes.txt", Data: []byte("hello")})
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestDecoder_OpenRejectsGarbage(t *testing.T) {
	_, err := NewDecoder().Open(context.Background(), "junk.bin", []byte("definitely not a document"))
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestDecoder_RenderAtScale(t *testing.T) {
	ctx := context.Background()
	doc, err := NewDecoder().Open(ctx, "one.pdf", []byte(onePagePDF))
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })

	require.Equal(t, 1, doc.PageCount())

	page, err := doc.Page(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number())
	assert.Equal(t, entity.Size{Width: 200, Height: 100}, page.Size())

	img, err := page.Render(ctx, entity.NewViewport(page.Size(), 2))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, err = doc.Page(ctx, 2)
	assert.ErrorIs(t, err, entity.ErrPage)
}

func TestDocument_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	doc, err := NewDecoder().Open(ctx, "one.pdf", []byte(onePagePDF))
	require.NoError(t, err)

	page, err := doc.Page(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close())

	_, err = doc.Page(ctx, 1)
	assert.ErrorIs(t, err, entity.ErrPage)
	_, err = page.Render(ctx, entity.NewViewport(page.Size(), 1))
	assert.ErrorIs(t, err, entity.ErrRender)
}
