package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaType(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"application/pdf", KindPDF},
		{"application/pdf; charset=binary", KindPDF},
		{" application/pdf ", KindPDF},
		{"image/png", KindImage},
		{"image/jpeg", KindImage},
		{"image/heic", KindImage},
		{"image/png; charset", KindImage},
		{`image/png; name="a`, KindImage},
		{"image/", KindImage},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMediaType(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMediaTypeUnsupported(t *testing.T) {
	for _, in := range []string{"", "text/plain", "application/pdfx", "application/x-pdf", "Application/PDF", "IMAGE/WEBP", "image", "video/mp4", "imagepng", "images/png"} {
		t.Run(in, func(t *testing.T) {
			kind, err := ParseMediaType(in)
			assert.Equal(t, KindUnknown, kind)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedType))

			var ute *UnsupportedTypeError
			require.ErrorAs(t, err, &ute)
			assert.Equal(t, in, ute.MediaType)
			assert.Equal(t, "Unsupported type: "+in, err.Error())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pdf", KindPDF.String())
	assert.Equal(t, "image", KindImage.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
