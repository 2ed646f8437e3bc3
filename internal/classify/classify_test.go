package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want FileType
	}{
		{"pdf document", "grant-form.pdf", FileTypeDocument},
		{"uppercase extension", "report.PDF", FileTypeDocument},
		{"word document", "application.docx", FileTypeDocument},
		{"legacy word document", "application.doc", FileTypeDocument},
		{"plain text", "notes.txt", FileTypeDocument},
		{"csv", "budget.csv", FileTypeDocument},
		{"nested key", "app/prod/asset/grant-form.pdf", FileTypeDocument},
		{"jpeg image", "photo.jpg", FileTypeImage},
		{"jpeg alternate extension", "photo.jpeg", FileTypeImage},
		{"png image", "diagram.png", FileTypeImage},
		{"gif image", "anim.gif", FileTypeImage},
		{"webp image", "pic.webp", FileTypeImage},
		{"svg image", "logo.svg", FileTypeImage},
		{"mp4 video", "clip.mp4", FileTypeVideo},
		{"mov video", "clip.mov", FileTypeVideo},
		{"avi video", "clip.avi", FileTypeVideo},
		{"webm video", "clip.webm", FileTypeVideo},
		{"unknown extension", "archive.zip", FileTypeOther},
		{"no extension", "README", FileTypeOther},
		{"trailing dot", "file.", FileTypeOther},
		{"dot in directory only", "dir.v1/file", FileTypeOther},
		{"empty key", "", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key))
		})
	}
}
