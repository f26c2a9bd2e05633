package adapter

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

const manifestVersion = 1

// ManifestStore persists the record of a copy run.
type ManifestStore interface {
	Save(path m.Path, summary m.RunSummary) error
	Load(path m.Path) (m.RunSummary, error)
}

type manifestFile struct {
	Version     int               `yaml:"version"`
	Source      string            `yaml:"source"`
	Destination string            `yaml:"destination"`
	StartedAt   time.Time         `yaml:"started_at"`
	FinishedAt  time.Time         `yaml:"finished_at"`
	Totals      map[string]int    `yaml:"totals"`
	Projects    []manifestProject `yaml:"projects"`
}

type manifestProject struct {
	Path         string          `yaml:"path"`
	Extracted    bool            `yaml:"extracted"`
	Dependencies int             `yaml:"dependencies"`
	Assets       []manifestAsset `yaml:"assets,omitempty"`
}

type manifestAsset struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Status      string `yaml:"status"`
	Kind        string `yaml:"kind,omitempty"`
	Size        int64  `yaml:"size,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// YAMLManifestStore writes manifests as YAML through an AssetFSAdapter.
type YAMLManifestStore struct {
	fs AssetFSAdapter
}

// NewManifestStore returns a YAML manifest store.
func NewManifestStore(fs AssetFSAdapter) *YAMLManifestStore {
	return &YAMLManifestStore{fs: fs}
}

// Save encodes summary and writes it to path.
func (s *YAMLManifestStore) Save(path m.Path, summary m.RunSummary) error {
	doc := manifestFile{
		Version:     manifestVersion,
		Source:      string(summary.Source),
		Destination: string(summary.Destination),
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		Totals:      map[string]int{},
	}

	for _, status := range []m.CopyStatus{m.Copied, m.AlreadyCopied, m.Skipped, m.Failed, m.Planned} {
		if n := summary.Total(status); n > 0 {
			doc.Totals[status.String()] = n
		}
	}

	for _, report := range summary.Projects {
		project := manifestProject{
			Path:         string(report.Project.Path),
			Extracted:    report.Extracted,
			Dependencies: report.Dependencies,
		}

		for _, outcome := range report.Outcomes {
			asset := manifestAsset{
				Source:      string(outcome.Source),
				Destination: string(outcome.Destination),
				Status:      outcome.Status.String(),
				Kind:        string(outcome.Kind),
				Size:        outcome.Size,
			}
			if outcome.Err != nil {
				asset.Error = outcome.Err.Error()
			}

			project.Assets = append(project.Assets, asset)
		}

		doc.Projects = append(doc.Projects, project)
	}

	content, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := s.fs.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}

// Load reads a manifest written by Save.
func (s *YAMLManifestStore) Load(path m.Path) (m.RunSummary, error) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var doc manifestFile
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return m.RunSummary{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	if doc.Version != manifestVersion {
		return m.RunSummary{}, fmt.Errorf("manifest %s: unsupported version %d", path, doc.Version)
	}

	summary := m.RunSummary{
		Source:      m.Path(doc.Source),
		Destination: m.Path(doc.Destination),
		StartedAt:   doc.StartedAt,
		FinishedAt:  doc.FinishedAt,
	}

	for _, project := range doc.Projects {
		report := m.ProjectReport{
			Project:      m.ProjectFile{Path: m.Path(project.Path)},
			Extracted:    project.Extracted,
			Dependencies: project.Dependencies,
		}

		for _, asset := range project.Assets {
			status, ok := m.ParseCopyStatus(asset.Status)
			if !ok {
				return m.RunSummary{}, fmt.Errorf("manifest %s: unknown status %q", path, asset.Status)
			}

			outcome := m.CopyOutcome{
				Source:      m.Path(asset.Source),
				Destination: m.Path(asset.Destination),
				Status:      status,
				Kind:        m.AssetKind(asset.Kind),
				Size:        asset.Size,
			}
			if asset.Error != "" {
				outcome.Err = errors.New(asset.Error)
			}

			report.Outcomes = append(report.Outcomes, outcome)
		}

		summary.Projects = append(summary.Projects, report)
	}

	return summary, nil
}
