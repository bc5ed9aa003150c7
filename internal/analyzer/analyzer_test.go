package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcope/internal/core/config"
	"reposcope/internal/core/model"
)

func newAnalyzer(t *testing.T, workers int) *Analyzer {
	t.Helper()
	sig, err := config.LoadSignatures("")
	require.NoError(t, err)
	return New(sig, workers)
}

func file(path, content string) model.SnapshotFile {
	return model.SnapshotFile{Path: path, Content: []byte(content)}
}

func TestAnalyze_ImportEdgeAndExternal(t *testing.T) {
	a := newAnalyzer(t, 2)

	m, err := a.Analyze(context.Background(), &model.Snapshot{Files: []model.SnapshotFile{
		file("a.py", "import b\nimport os\n"),
		file("b.py", "x = 1\n"),
	}})
	require.NoError(t, err)

	require.Len(t, m.DependencyEdges, 1)
	assert.Equal(t, model.DependencyEdge{Source: "a.py", Target: "b.py", Kind: model.KindImport}, m.DependencyEdges[0])

	assert.Equal(t, 2, m.Stats.TotalFiles)
	assert.Equal(t, 1, m.Stats.UnresolvedReferences)
	assert.Equal(t, []string{"os"}, m.Stats.ExternalModules)
}

func TestAnalyze_FlaskApplication(t *testing.T) {
	a := newAnalyzer(t, 2)

	m, err := a.Analyze(context.Background(), &model.Snapshot{Files: []model.SnapshotFile{
		file("app.py", "from flask import Flask\n\napp = Flask(__name__)\n\nif __name__ == '__main__':\n    app.run()\n"),
		file("requirements.txt", "flask==2.3.0\n"),
	}})
	require.NoError(t, err)

	require.Len(t, m.FrameworkHits, 1)
	assert.Equal(t, "Flask", m.FrameworkHits[0].Name)
	assert.Equal(t, model.ConfidenceHigh, m.FrameworkHits[0].Confidence)
	assert.Equal(t, "requirements.txt", m.FrameworkHits[0].EvidenceFile)

	require.Len(t, m.EntryPoints, 2)
	assert.Equal(t, model.EntryApplication, m.EntryPoints[0].Kind)
	assert.Equal(t, model.EntryFramework, m.EntryPoints[1].Kind)
	assert.Equal(t, "Flask", m.EntryPoints[1].Framework)

	for _, n := range m.FileNodes {
		if n.Path == "app.py" {
			assert.True(t, n.IsEntryCandidate)
		}
	}
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	a := newAnalyzer(t, 2)

	m, err := a.Analyze(context.Background(), &model.Snapshot{})
	require.NoError(t, err)

	assert.Equal(t, model.Empty(), m)
	assert.NotNil(t, m.FileNodes)
	assert.NotNil(t, m.Stats.ExternalModules)
}

func TestAnalyze_BinaryFilesStayInventoryOnly(t *testing.T) {
	a := newAnalyzer(t, 2)

	m, err := a.Analyze(context.Background(), &model.Snapshot{Files: []model.SnapshotFile{
		file("app.py", "import helpers\n"),
		file("helpers.py", "pass\n"),
		{Path: "logo.png", Content: []byte{0x89, 0x50, 0x00, 0x47}, IsBinary: true},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Stats.TotalFiles)
	assert.Equal(t, 1, m.Stats.BinaryFiles)

	var binary model.FileNode
	for _, n := range m.FileNodes {
		if n.Path == "logo.png" {
			binary = n
		}
	}
	assert.True(t, binary.Binary)
	assert.Equal(t, 0, binary.LineCount)

	// Binary files never appear as edge endpoints or folder file counts.
	for _, e := range m.DependencyEdges {
		assert.NotEqual(t, "logo.png", e.Source)
		assert.NotEqual(t, "logo.png", e.Target)
	}
	for _, f := range m.FolderSummaries {
		if f.Path == "." {
			assert.Equal(t, 2, f.FileCount)
		}
	}
}

func TestAnalyze_UnknownLanguageCountedNotScanned(t *testing.T) {
	a := newAnalyzer(t, 1)

	m, err := a.Analyze(context.Background(), &model.Snapshot{Files: []model.SnapshotFile{
		file("notes.xyz", "import looks_like_python\n"),
	}})
	require.NoError(t, err)

	require.Len(t, m.FileNodes, 1)
	assert.Equal(t, "unknown", m.FileNodes[0].Language)
	assert.Zero(t, m.Stats.UnresolvedReferences)
	assert.Empty(t, m.DependencyEdges)
	assert.Zero(t, m.Stats.SkippedFiles, "unsupported language is a degradation, not a skip")
}

func TestAnalyze_Deterministic(t *testing.T) {
	files := []model.SnapshotFile{
		file("api/server.py", "from flask import Flask\nimport db.queries\nfrom . import middleware\n"),
		file("api/middleware.py", "import logging\n"),
		file("db/queries.py", "import sqlite3\n"),
		file("client/index.js", "import React from 'react';\nimport { api } from './api';\n"),
		file("client/api.js", "const axios = require('axios');\n"),
		file("requirements.txt", "flask\n"),
	}

	var previous []byte
	for run := 0; run < 5; run++ {
		a := newAnalyzer(t, 4)
		m, err := a.Analyze(context.Background(), &model.Snapshot{Files: files})
		require.NoError(t, err)

		out, err := json.Marshal(m)
		require.NoError(t, err)

		if previous != nil && !bytes.Equal(previous, out) {
			t.Fatalf("run %d produced different output", run)
		}
		previous = out
	}
}

func TestAnalyze_FolderRoles(t *testing.T) {
	a := newAnalyzer(t, 2)

	m, err := a.Analyze(context.Background(), &model.Snapshot{Files: []model.SnapshotFile{
		file("api/server.py", "import os\n"),
		file("client/app.js", "import './style.css';\n"),
		file("migrations/001_init.sql", "CREATE TABLE t (id INT);\n"),
	}})
	require.NoError(t, err)

	roles := make(map[string]model.FolderRole)
	for _, f := range m.FolderSummaries {
		roles[f.Path] = f.Role
	}
	assert.Equal(t, model.RoleBackend, roles["api"])
	assert.Equal(t, model.RoleFrontend, roles["client"])
	assert.Equal(t, model.RoleData, roles["migrations"])
}

func TestVerify_RejectsDanglingEdges(t *testing.T) {
	m := model.Empty()
	m.FileNodes = []model.FileNode{{Path: "a.py"}}
	m.DependencyEdges = []model.DependencyEdge{{Source: "a.py", Target: "ghost.py"}}

	err := verify(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTERNAL_CONSISTENCY")
}

func TestVerify_RejectsDanglingEntryPoints(t *testing.T) {
	m := model.Empty()
	m.FileNodes = []model.FileNode{{Path: "a.py"}}
	m.EntryPoints = []model.EntryPoint{{File: "ghost.py", Kind: model.EntryApplication}}

	require.Error(t, verify(m))
}
