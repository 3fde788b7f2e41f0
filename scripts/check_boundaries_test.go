package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.go")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const queuePrefix = "fundqueue/contexts/membership-queue/queue-service"

func TestDomainAllowsValueLibrariesOnly(t *testing.T) {
	path := writeSource(t, `package services

import (
	"sort"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"fundqueue/internal/platform/db"
)
`)
	violations := validateFile(path, "contexts/membership-queue/queue-service/domain/services/x.go", "domain", queuePrefix)

	imports := make([]string, 0, len(violations))
	for _, v := range violations {
		imports = append(imports, v.Import)
	}
	assert.ElementsMatch(t, []string{"gorm.io/gorm", "fundqueue/internal/platform/db", "fundqueue/internal/platform/db"}, imports)
}

func TestCrossContextImportIsReported(t *testing.T) {
	path := writeSource(t, `package commands

import "fundqueue/contexts/payout-approvals/approval-workflow/domain/entities"
`)
	violations := validateFile(path, "contexts/membership-queue/queue-service/application/commands/x.go", "application", queuePrefix)
	require.NotEmpty(t, violations)
	assert.Equal(t, "cross-module imports are forbidden", violations[0].Rule)
}

func TestApplicationMayUseErrgroup(t *testing.T) {
	path := writeSource(t, `package queries

import (
	"context"

	"fundqueue/contexts/membership-queue/queue-service/ports"
	"golang.org/x/sync/errgroup"
)
`)
	assert.Empty(t, validateFile(path, "contexts/membership-queue/queue-service/application/queries/x.go", "application", queuePrefix))
}

func TestRepositoryContextsRespectBoundaries(t *testing.T) {
	t.Chdir("..")
	assert.Empty(t, collectViolations("contexts"))
}
