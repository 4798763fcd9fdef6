package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toricodesthings/engagement-extract-service/internal/extract"
	"github.com/toricodesthings/engagement-extract-service/internal/logging"
)

// buildPDF writes a single-page PDF whose content stream is content, with
// a correct xref table.
func buildPDF(content string) []byte {
	return buildPDFWithTrailer(content, "")
}

// buildPDFWithTrailer is buildPDF with extra entries in the trailer dictionary.
func buildPDFWithTrailer(content, extra string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, extra, xref)
	return buf.Bytes()
}

func doc(data []byte) extract.Document {
	return extract.Document{Data: data, MediaType: "application/pdf", Name: "test.pdf"}
}

func TestExtractTextLayer(t *testing.T) {
	data := buildPDF("BT /F1 24 Tf 72 720 Td (Hello World) Tj ET")

	text, err := New().Extract(context.Background(), doc(data))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello")
	assert.Equal(t, text, trimmed(text))
}

func TestExtractNoTextLayer(t *testing.T) {
	text, err := New().Extract(context.Background(), doc(buildPDF("")))
	assert.Equal(t, "", text)
	assert.Error(t, err)
}

// encryptedPDF protects the text layer with the standard security handler.
// The user password is not empty, so the document cannot be opened.
func encryptedPDF() []byte {
	o := strings.Repeat("o", 32)
	u := strings.Repeat("u", 32)
	id := "<00112233445566778899aabbccddeeff>"
	encrypt := fmt.Sprintf("/Encrypt << /Filter /Standard /V 1 /R 2 /Length 40 /O (%s) /U (%s) /P -4 >> /ID [%s %s] ", o, u, id, id)
	return buildPDFWithTrailer("BT /F1 24 Tf 72 720 Td (Secret) Tj ET", encrypt)
}

func TestExtractEncrypted(t *testing.T) {
	text, err := New().Extract(context.Background(), doc(encryptedPDF()))
	assert.Equal(t, "", text)
	assert.ErrorIs(t, err, ErrEncrypted)
}

func TestEncryptedPDFStillAnalyzed(t *testing.T) {
	registry := extract.NewRegistry()
	registry.Register(New())
	p := extract.NewPipeline(registry, logging.Nop())

	env := p.Extract(context.Background(), encryptedPDF(), "application/pdf", "locked.pdf")
	require.True(t, env.OK)
	assert.Equal(t, "", env.Text)
	assert.Equal(t, 0, env.Analysis.WordCount)
	assert.Len(t, env.Analysis.Suggestions, 5)
}

func TestExtractGarbage(t *testing.T) {
	text, err := New().Extract(context.Background(), doc([]byte("%PDF-1.7 this is not really a pdf")))
	assert.Equal(t, "", text)
	assert.Error(t, err)
}

func TestExtractEmpty(t *testing.T) {
	text, err := New().Extract(context.Background(), doc(nil))
	assert.Equal(t, "", text)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text, err := New().Extract(ctx, doc(buildPDF("BT /F1 24 Tf 72 720 Td (Hello) Tj ET")))
	assert.Equal(t, "", text)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractorIdentity(t *testing.T) {
	e := New()
	assert.Equal(t, extract.KindPDF, e.Kind())
	assert.Equal(t, "document/pdf", e.Name())
}

func trimmed(s string) string { return string(bytes.TrimSpace([]byte(s))) }
