// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package database

import (
	"fmt"
	"strings"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// buildInClause creates a parameterized IN clause for SQL queries.
// Returns the placeholder string and the arguments slice.
//
// Example:
//
//	placeholders, args := buildInClause([]string{"s01", "s02", "s03"})
//	// placeholders = "?,?,?"
//	// args = []interface{}{"s01", "s02", "s03"}
func buildInClause(items []string) (string, []interface{}) {
	placeholders := make([]string, len(items))
	args := make([]interface{}, len(items))
	for i, item := range items {
		placeholders[i] = "?"
		args[i] = item
	}
	return strings.Join(placeholders, ","), args
}

// buildCatalogConditions turns a CatalogFilter into WHERE conditions.
// The base query must already end in "WHERE 1=1".
func buildCatalogConditions(f recommend.CatalogFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if category := recommend.NormalizeCategory(f.Category); category != "" {
		conditions = append(conditions, "c.category = ?")
		args = append(args, category)
	}

	if len(f.ItemIDs) > 0 {
		placeholders, idArgs := buildInClause(f.ItemIDs)
		conditions = append(conditions, fmt.Sprintf("c.id IN (%s)", placeholders))
		args = append(args, idArgs...)
	}

	if len(conditions) > 0 {
		return " AND " + strings.Join(conditions, " AND "), args
	}
	return "", args
}
