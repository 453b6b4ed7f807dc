package index

import (
	"log/slog"
	"strings"

	"github.com/starford/noter/internal/checksum"
	"github.com/starford/noter/internal/models"
	"github.com/starford/noter/internal/parser"
	"github.com/starford/noter/internal/storage"
)

// Sync walks the notes directory and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db NoteIndex, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile parses data and upserts it under meta.Path. Link targets are
// stored as titles, so "[x](x.md)" and "[x](x)" both point at note x.
func IndexFile(db NoteIndex, meta models.NoteMetadata, data []byte) error {
	res := parser.Parse(string(data))
	row := NoteRow{
		Path:      meta.Path,
		Title:     models.TitleFromPath(meta.Path),
		Checksum:  checksum.Sum(data),
		Tags:      res.Tags,
		UpdatedAt: meta.UpdatedAt,
	}
	links := make([]models.Link, len(res.Links))
	for i, l := range res.Links {
		links[i] = models.Link{Label: l.Label, Target: strings.TrimSuffix(l.Target, models.FileExt)}
	}
	return db.UpsertNote(row, string(data), links)
}
