package commands

import (
	"strings"
	"testing"
	"time"

	"botpanel/internal/analyzer"
	"botpanel/internal/models"
	"botpanel/internal/provider"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

type fakeFileContribs struct {
	repository.ContributionRepository
	files      []*models.Contribution
	stats      []*repository.FileCategoryStat
	classified []*models.Contribution
	lastFilter repository.FileFilter
	statCalls  int
}

func (f *fakeFileContribs) GetStoredFiles(filter repository.FileFilter) ([]*models.Contribution, error) {
	f.lastFilter = filter
	out := []*models.Contribution{}
	for _, c := range f.files {
		if filter.Category != "" && (c.ContentType == nil || *c.ContentType != filter.Category) {
			continue
		}
		if filter.Username != "" && c.Username != filter.Username {
			continue
		}
		if filter.Name != "" && (c.FilePath == nil || !strings.Contains(*c.FilePath, filter.Name)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeFileContribs) GetFileStats() ([]*repository.FileCategoryStat, error) {
	f.statCalls++
	return f.stats, nil
}

func (f *fakeFileContribs) GetByKind(kind string, limit int) ([]*models.Contribution, error) {
	if kind != provider.ContributionKind {
		return nil, nil
	}
	return f.classified, nil
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func fileRow(path, kind, user string, size int64) *models.Contribution {
	return &models.Contribution{
		Content:     "archivo",
		Kind:        provider.ContributionKind,
		Username:    user,
		CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		FilePath:    strPtr(path),
		FileSize:    i64Ptr(size),
		ContentType: strPtr(kind),
	}
}

func newFileHandlers(contribs *fakeFileContribs) *Handlers {
	logger := zap.NewNop()
	return NewHandlers(adminUsers(), nil, contribs, nil, nil, nil, &fakeLogs{}, nil,
		analyzer.New(nil, nil, logger), nil, logger)
}

func TestListFilesRejectsUnknownCategory(t *testing.T) {
	h := newFileHandlers(&fakeFileContribs{})

	res := h.ListFiles("inventada", "pepe", nil)
	if res.Success {
		t.Fatalf("result = %+v, want failure", res)
	}
	if !strings.Contains(res.Message, "Categoria invalida") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestListFilesFiltersByCategory(t *testing.T) {
	contribs := &fakeFileContribs{files: []*models.Contribution{
		fileRow("/media/documents/jinx_45.pdf", "capitulo", "ana", 2048),
		fileRow("/media/images/fanart.png", "ilustracion", "pepe", 512),
	}}
	h := newFileHandlers(contribs)

	res := h.ListFiles("capitulo", "pepe", nil)
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if contribs.lastFilter.Category != "capitulo" {
		t.Errorf("filter category = %q", contribs.lastFilter.Category)
	}
	if !strings.Contains(res.Message, "jinx_45.pdf") || strings.Contains(res.Message, "fanart.png") {
		t.Errorf("message = %q, want only the chapter file", res.Message)
	}
}

func TestMyFilesScopedToActor(t *testing.T) {
	contribs := &fakeFileContribs{files: []*models.Contribution{
		fileRow("/media/images/mio.jpg", "ilustracion", "pepe", 100),
		fileRow("/media/images/ajeno.jpg", "ilustracion", "ana", 100),
	}}
	h := newFileHandlers(contribs)

	res := h.MyFiles("pepe", nil)
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if contribs.lastFilter.Username != "pepe" {
		t.Errorf("filter username = %q", contribs.lastFilter.Username)
	}
	if strings.Contains(res.Message, "ajeno.jpg") {
		t.Errorf("message = %q, lists another user's file", res.Message)
	}
}

func TestFileStatsRequiresPrivilege(t *testing.T) {
	contribs := &fakeFileContribs{stats: []*repository.FileCategoryStat{
		{Category: "capitulo", Total: 3, TotalSize: 3 * 1024 * 1024},
	}}
	h := newFileHandlers(contribs)

	res := h.FileStats("pepe", nil)
	if res.Success {
		t.Fatalf("result = %+v, want denial for plain user", res)
	}
	if contribs.statCalls != 0 {
		t.Error("stats queried despite denial")
	}

	res = h.FileStats("admin", nil)
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Message, "Total de archivos: 3") {
		t.Errorf("message = %q", res.Message)
	}
	if !strings.Contains(res.Message, "3.00 MB") {
		t.Errorf("message = %q, want formatted size", res.Message)
	}
}

func TestSearchFileByName(t *testing.T) {
	contribs := &fakeFileContribs{files: []*models.Contribution{
		fileRow("/media/documents/jinx_45.pdf", "capitulo", "ana", 2048),
	}}
	h := newFileHandlers(contribs)

	res := h.SearchFile("jinx", "pepe", nil)
	if !res.Success || !strings.Contains(res.Message, "jinx_45.pdf") {
		t.Fatalf("result = %+v", res)
	}

	res = h.SearchFile("nada", "pepe", nil)
	if !res.Success || !strings.Contains(res.Message, "No se encontraron") {
		t.Fatalf("result = %+v, want empty-search notice", res)
	}
}

func TestListClassifiedShowsPipelineRows(t *testing.T) {
	row := fileRow("/media/images/x.jpg", "capitulo", "sistema_auto", 100)
	row.Title = strPtr("Jinx")
	row.Provider = strPtr("Prov")
	contribs := &fakeFileContribs{classified: []*models.Contribution{row}}
	h := newFileHandlers(contribs)

	res := h.ListClassified("pepe", nil)
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	for _, want := range []string{"Jinx", "capitulo", "Prov"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("message = %q, missing %q", res.Message, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.bytes); got != tt.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
