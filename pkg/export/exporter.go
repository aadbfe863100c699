package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/logger"
)

// Exporter writes the CSV artifacts of a report into a directory.
type Exporter struct {
	dir string
	log *logger.Logger
}

// NewExporter creates an exporter writing to dir.
func NewExporter(dir string, l *logger.Logger) *Exporter {
	if l == nil {
		l = logger.GetLogger()
	}
	return &Exporter{dir: dir, log: l.WithField("component", "exporter")}
}

// SaveReport writes the overview table and every keyword's region table.
// Keywords without regions are skipped. Keywords whose file names collide
// after sanitizing get a numeric suffix. It returns the written paths.
func (e *Exporter) SaveReport(report *analysis.Report) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	if report.Overview != nil {
		var buf bytes.Buffer
		if err := WriteInterestOverTime(&buf, report.Overview); err != nil {
			return written, err
		}
		path, err := e.write(InterestFileName, buf.Bytes())
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	used := make(map[string]bool)
	for _, out := range report.Outcomes {
		if len(out.Regions) == 0 {
			continue
		}
		var buf bytes.Buffer
		if err := WriteRegions(&buf, out.Keyword, out.Regions); err != nil {
			return written, err
		}
		path, err := e.write(uniqueRegionsFileName(out.Keyword, used), buf.Bytes())
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	e.log.WithFields(map[string]interface{}{
		"run_id": report.ID,
		"files":  len(written),
		"dir":    e.dir,
	}).Info("Report exported")
	return written, nil
}

func (e *Exporter) write(name string, data []byte) (string, error) {
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

func uniqueRegionsFileName(keyword string, used map[string]bool) string {
	base := sanitize(keyword)
	name := base + regionsSuffix
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d%s", base, n, regionsSuffix)
	}
	used[name] = true
	return name
}
