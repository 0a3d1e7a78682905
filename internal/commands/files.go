package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"botpanel/internal/classifier"
	"botpanel/internal/models"
	"botpanel/internal/provider"
	"botpanel/internal/repository"

	"go.uber.org/zap"
)

const fileListLimit = 20

// fileCategories are the classified types a stored file can carry.
var fileCategories = map[string]bool{
	classifier.TypeChapter:      true,
	classifier.TypeExtra:        true,
	classifier.TypeIllustration: true,
	classifier.TypePack:         true,
	classifier.TypeUnknown:      true,
}

// ListFiles lists stored media files, optionally filtered by category.
func (h *Handlers) ListFiles(category, username string, groupID *string) *Result {
	if category != "" && !fileCategories[category] {
		return fail("Categoria invalida. Usa: capitulo, extra, ilustracion, pack o deja vacio para ver todos.")
	}

	items, err := h.contribs.GetStoredFiles(repository.FileFilter{Category: category, Limit: fileListLimit})
	if err != nil {
		h.logger.Error("file listing failed", zap.Error(err))
		return fail("Error al obtener lista de archivos.")
	}
	if len(items) == 0 {
		if category != "" {
			return ok("No hay archivos de categoria %q.", category)
		}
		return ok("No hay archivos guardados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Archivos guardados (%d):*\n\n", len(items))
	for i, c := range items {
		writeFileLine(&b, i+1, c, true)
	}
	b.WriteString("Tip: usa /archivos <categoria> para filtrar.")

	h.logCommand("consulta", "archivos", username, groupID)
	return ok("%s", b.String())
}

// MyFiles lists the actor's own stored files.
func (h *Handlers) MyFiles(username string, groupID *string) *Result {
	items, err := h.contribs.GetStoredFiles(repository.FileFilter{Username: username, Limit: fileListLimit})
	if err != nil {
		h.logger.Error("file listing failed", zap.Error(err))
		return fail("Error al obtener tus archivos.")
	}
	if len(items) == 0 {
		return ok("No tienes archivos guardados.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Tus archivos (%d):*\n\n", len(items))
	for i, c := range items {
		writeFileLine(&b, i+1, c, false)
	}

	h.logCommand("consulta", "misarchivos", username, groupID)
	return ok("%s", b.String())
}

// FileStats reports stored-file aggregates per category. Owner/Admin only.
func (h *Handlers) FileStats(username string, groupID *string) *Result {
	if !h.isOwnerOrAdmin(username) {
		return fail("Solo Owner/Admin pueden ver estadisticas.")
	}

	stats, err := h.contribs.GetFileStats()
	if err != nil {
		h.logger.Error("file stats failed", zap.Error(err))
		return fail("Error al obtener estadisticas.")
	}

	var totalFiles, totalSize int64
	for _, s := range stats {
		totalFiles += s.Total
		totalSize += s.TotalSize
	}

	var b strings.Builder
	b.WriteString("*Estadisticas de archivos*\n\n")
	fmt.Fprintf(&b, "Total de archivos: %d\n", totalFiles)
	fmt.Fprintf(&b, "Espacio total: %s\n", formatFileSize(totalSize))
	if len(stats) > 0 {
		b.WriteString("\nPor categoria:\n")
		for _, s := range stats {
			fmt.Fprintf(&b, "- %s: %d archivos (%s)\n", s.Category, s.Total, formatFileSize(s.TotalSize))
		}
	}

	h.logCommand("consulta", "estadisticas", username, groupID)
	return ok("%s", b.String())
}

// SearchFile finds stored files whose name contains the given text.
func (h *Handlers) SearchFile(name, username string, groupID *string) *Result {
	items, err := h.contribs.GetStoredFiles(repository.FileFilter{Name: name, Limit: fileListLimit})
	if err != nil {
		h.logger.Error("file search failed", zap.Error(err))
		return fail("Error al buscar archivos.")
	}
	if len(items) == 0 {
		return ok("No se encontraron archivos con %q.", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Archivos encontrados (%d):*\n\n", len(items))
	for i, c := range items {
		writeFileLine(&b, i+1, c, true)
	}

	h.logCommand("consulta", "buscararchivo", username, groupID)
	return ok("%s", b.String())
}

// ListClassified shows the latest automatic classifications.
func (h *Handlers) ListClassified(username string, groupID *string) *Result {
	items, err := h.contribs.GetByKind(provider.ContributionKind, fileListLimit)
	if err != nil {
		h.logger.Error("classified listing failed", zap.Error(err))
		return fail("Error al obtener clasificaciones.")
	}
	if len(items) == 0 {
		return ok("No hay contenido clasificado aun. El bot clasificara automaticamente cuando lleguen archivos a grupos proveedores.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Ultimas %d clasificaciones:*\n\n", len(items))
	for i, c := range items {
		title := classifier.UnknownTitle
		if c.Title != nil {
			title = *c.Title
		}
		kind := classifier.TypeUnknown
		if c.ContentType != nil {
			kind = *c.ContentType
		}
		prov := "General"
		if c.Provider != nil {
			prov = *c.Provider
		}
		fmt.Fprintf(&b, "%d. *%s*\n   %s | %s | %s\n", i+1, title, kind, prov, c.CreatedAt.Format("02/01/2006"))
	}

	h.logCommand("consulta", "listclasificados", username, groupID)
	return ok("%s", b.String())
}

func writeFileLine(b *strings.Builder, n int, c *models.Contribution, withOwner bool) {
	name := ""
	if c.FilePath != nil {
		name = filepath.Base(*c.FilePath)
	}
	kind := classifier.TypeUnknown
	if c.ContentType != nil {
		kind = *c.ContentType
	}
	var size int64
	if c.FileSize != nil {
		size = *c.FileSize
	}
	fmt.Fprintf(b, "%d. *%s*\n   %s | %s", n, name, kind, formatFileSize(size))
	if withOwner {
		fmt.Fprintf(b, " | @%s", c.Username)
	}
	fmt.Fprintf(b, " | %s\n", c.CreatedAt.Format("02/01/2006"))
}

func formatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}
