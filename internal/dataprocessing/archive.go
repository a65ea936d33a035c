package dataprocessing

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "returnpulse/internal/errors"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

// SystemMetadataPrefix marks archive entries written by the OS archiver.
const SystemMetadataPrefix = "__MACOSX"

// DefaultMaxMemberBytes bounds the decompressed size of one archive member.
const DefaultMaxMemberBytes int64 = 64 << 20

// Outcome pairs what one source contributed with its report.
type Outcome struct {
	Report  domain.SourceReport
	Records []domain.ReturnRecord
}

// ArchiveResult is the expansion of one bundle.
type ArchiveResult struct {
	Name     string
	Outcomes []Outcome
	// Failure is set when the bundle itself cannot be opened.
	Failure *domain.Failure
}

// ArchiveExpander routes every eligible member of a ZIP bundle through the
// platform detector and the extractor. One member failing never stops the rest.
type ArchiveExpander struct {
	extractor      *Extractor
	logger         *slog.Logger
	maxMemberBytes int64
}

// NewArchiveExpander creates an expander. maxMemberBytes <= 0 uses DefaultMaxMemberBytes.
func NewArchiveExpander(extractor *Extractor, logger *slog.Logger, maxMemberBytes int64) *ArchiveExpander {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = NewExtractor(logger)
	}
	if maxMemberBytes <= 0 {
		maxMemberBytes = DefaultMaxMemberBytes
	}
	return &ArchiveExpander{extractor: extractor, logger: logger, maxMemberBytes: maxMemberBytes}
}

// Expand opens data as a ZIP archive named name and extracts every member.
func (a *ArchiveExpander) Expand(data []byte, name string) ArchiveResult {
	result := ArchiveResult{Name: name}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		cause := apperrors.NewParsingError("cannot open archive", err)
		a.logger.Error("Failed to open archive",
			slog.String("archive", name),
			slog.String("error", cause.Error()))
		result.Failure = &domain.Failure{
			Kind:    domain.FailureCorruptArchive,
			Label:   name,
			Message: err.Error(),
		}
		return result
	}

	a.logger.Info("Processing archive",
		slog.String("archive", name),
		slog.Int("entries", len(zr.File)))

	for _, f := range zr.File {
		if !Eligible(f.Name) || f.FileInfo().IsDir() {
			continue
		}
		result.Outcomes = append(result.Outcomes, a.member(f, name))
	}
	return result
}

// Eligible reports whether an archive entry should be considered at all:
// not system metadata and a recognized tabular extension.
func Eligible(entry string) bool {
	if strings.HasPrefix(entry, SystemMetadataPrefix) {
		return false
	}
	return FormatFromName(entry).Tabular()
}

func (a *ArchiveExpander) member(f *zip.File, archive string) Outcome {
	report := domain.SourceReport{Label: f.Name, Archive: archive}

	p, ok := platform.Detect(f.Name)
	if !ok {
		a.logger.Warn("Skipping file in archive (platform not recognized)",
			slog.String("archive", archive),
			slog.String("label", f.Name))
		report.Failure = &domain.Failure{
			Kind:    domain.FailureUnrecognizedPlatform,
			Label:   f.Name,
			Archive: archive,
			Message: "platform not recognized",
		}
		return Outcome{Report: report}
	}
	schema, _ := p.Schema()
	report.Platform = schema.DisplayName

	data, err := a.readMember(f)
	if err != nil {
		fail := unreadable(f.Name, err).Failure()
		fail.Archive = archive
		report.Failure = &fail
		logFailure(a.logger, fail)
		return Outcome{Report: report}
	}

	ext, err := a.extractor.Extract(bytes.NewReader(data), FormatFromName(f.Name), schema, f.Name)
	if err != nil {
		fail := failureOf(err, f.Name)
		fail.Archive = archive
		report.Failure = &fail
		logFailure(a.logger, fail)
		return Outcome{Report: report}
	}

	report.RowsRead = ext.RowsRead
	report.RowsKept = len(ext.Records)
	report.RowsDropped = ext.RowsDropped
	report.Quantity = ext.Quantity()
	return Outcome{Report: report, Records: ext.Records}
}

func (a *ArchiveExpander) readMember(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > uint64(a.maxMemberBytes) {
		return nil, fmt.Errorf("member exceeds %d bytes", a.maxMemberBytes)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, a.maxMemberBytes+1))
	if err != nil {
		return nil, fmt.Errorf("decompress member: %w", err)
	}
	if int64(len(data)) > a.maxMemberBytes {
		return nil, fmt.Errorf("member exceeds %d bytes", a.maxMemberBytes)
	}
	return data, nil
}
