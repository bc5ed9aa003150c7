package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
)

func testSignatures(t *testing.T) *config.Signatures {
	t.Helper()
	sig, err := config.LoadSignatures("")
	require.NoError(t, err)
	return sig
}

func snap(files ...model.SnapshotFile) *model.Snapshot {
	return &model.Snapshot{Files: files}
}

func imp(source, raw string) model.ReferenceToken {
	return model.ReferenceToken{SourceFile: source, RawText: raw, Kind: model.KindImport}
}

func TestDetect_ImportEvidenceIsMedium(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(
		snap(model.SnapshotFile{Path: "app.py", Content: []byte("from flask import Flask")}),
		[]model.ReferenceToken{imp("app.py", "flask")},
	)

	require.Len(t, frameworks, 1)
	assert.Equal(t, model.StackHit{
		Name:         "Flask",
		Confidence:   model.ConfidenceMedium,
		EvidenceFile: "app.py",
	}, frameworks[0])
}

func TestDetect_ManifestEvidenceIsHighAndWins(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(
		snap(
			model.SnapshotFile{Path: "app.py", Content: []byte("from flask import Flask")},
			model.SnapshotFile{Path: "requirements.txt", Content: []byte("flask==2.3.0\nrequests\n")},
		),
		[]model.ReferenceToken{imp("app.py", "flask")},
	)

	require.Len(t, frameworks, 1)
	assert.Equal(t, model.ConfidenceHigh, frameworks[0].Confidence)
	assert.Equal(t, "requirements.txt", frameworks[0].EvidenceFile)
}

func TestDetect_JSONManifestNeedsQuotedName(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(
		snap(model.SnapshotFile{
			Path:    "package.json",
			Content: []byte("{\n  \"dependencies\": {\n    \"express\": \"^4.18.0\"\n  }\n}\n"),
		}),
		nil,
	)
	require.Len(t, frameworks, 1)
	assert.Equal(t, "Express", frameworks[0].Name)
	assert.Equal(t, model.ConfidenceHigh, frameworks[0].Confidence)

	// A bare substring outside quotes does not count in JSON manifests.
	frameworks, _ = d.Detect(
		snap(model.SnapshotFile{
			Path:    "package.json",
			Content: []byte("{\n  \"name\": \"my-express-clone\"\n}\n"),
		}),
		nil,
	)
	assert.Empty(t, frameworks)
}

func TestDetect_MarkerFile(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(
		snap(model.SnapshotFile{Path: "manage.py", Content: []byte("#!/usr/bin/env python")}),
		nil,
	)
	require.Len(t, frameworks, 1)
	assert.Equal(t, "Django", frameworks[0].Name)
	assert.Equal(t, model.ConfidenceHigh, frameworks[0].Confidence)
}

func TestDetect_ImportPrefixMatching(t *testing.T) {
	d := NewDetector(testSignatures(t))

	// Submodule imports still hit; unrelated prefixes do not.
	_, datastores := d.Detect(snap(), []model.ReferenceToken{
		imp("db.py", "redis.asyncio"),
		imp("db.py", "redistribute"),
	})
	require.Len(t, datastores, 1)
	assert.Equal(t, "Redis", datastores[0].Name)
}

func TestDetect_EqualTierLexicalEvidenceTieBreak(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(snap(), []model.ReferenceToken{
		imp("z/app.py", "flask"),
		imp("a/app.py", "flask"),
	})
	require.Len(t, frameworks, 1)
	assert.Equal(t, "a/app.py", frameworks[0].EvidenceFile)
}

func TestDetect_DatastoresAndFrameworksSeparated(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, datastores := d.Detect(
		snap(model.SnapshotFile{Path: "requirements.txt", Content: []byte("flask\npsycopg2\n")}),
		nil,
	)

	require.Len(t, frameworks, 1)
	assert.Equal(t, "Flask", frameworks[0].Name)
	require.Len(t, datastores, 1)
	assert.Equal(t, "PostgreSQL", datastores[0].Name)
}

func TestDetect_BinaryManifestIgnored(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(
		snap(model.SnapshotFile{Path: "requirements.txt", Content: []byte{0x00, 'f'}, IsBinary: true}),
		nil,
	)
	assert.Empty(t, frameworks)
}

func TestDetect_ResultsSortedByName(t *testing.T) {
	d := NewDetector(testSignatures(t))

	frameworks, _ := d.Detect(snap(), []model.ReferenceToken{
		imp("a.py", "torch"),
		imp("b.py", "django"),
		imp("c.py", "flask"),
	})
	require.Len(t, frameworks, 3)
	assert.Equal(t, "Django", frameworks[0].Name)
	assert.Equal(t, "Flask", frameworks[1].Name)
	assert.Equal(t, "PyTorch", frameworks[2].Name)
}
