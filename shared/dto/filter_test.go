package dto_test

import (
	"cowork/shared/constant"
	"cowork/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "id", Value: "abc", Operator: dto.FilterOperatorEq, Table: "meeting_rooms"},
			wantWhere: "meeting_rooms.id = :id",
			wantArgs:  map[string]any{"id": "abc"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "id IN (:id_0, :id_1) ",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:      "not in with slice and arg name",
			filter:    dto.Filter{ArgName: "reserved", Field: "id", Value: []string{"a"}, Operator: dto.FilterOperatorNotIn, Table: "meeting_rooms"},
			wantWhere: "meeting_rooms.id NOT IN (:reserved_0) ",
			wantArgs:  map[string]any{"reserved_0": "a"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "empty not in matches everything",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorNotIn},
			wantWhere: "TRUE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "strictly less",
			filter:    dto.Filter{ArgName: "window_end", Field: "reserve_date_start", Value: "x", Operator: dto.FilterOperatorLess},
			wantWhere: "reserve_date_start < :window_end",
			wantArgs:  map[string]any{"window_end": "x"},
		},
		{
			name:      "strictly greater",
			filter:    dto.Filter{ArgName: "window_start", Field: "reserve_date_end", Value: "x", Operator: dto.FilterOperatorGreater},
			wantWhere: "reserve_date_end > :window_start",
			wantArgs:  map[string]any{"window_start": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "coworking_space_id", Value: "space-1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorNotIn},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(coworking_space_id = :coworking_space_id AND TRUE)", where)
	assert.Equal(t, map[string]any{"coworking_space_id": "space-1"}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestQueryParams_RestrictSortBy(t *testing.T) {
	tests := []struct {
		name        string
		params      dto.QueryParams
		wantSortBy  string
		wantSortDir string
	}{
		{
			name:        "allowed column kept",
			params:      dto.QueryParams{SortBy: "name", SortDir: dto.SortDirAsc},
			wantSortBy:  "name",
			wantSortDir: dto.SortDirAsc,
		},
		{
			name:        "unknown column replaced with default",
			params:      dto.QueryParams{SortBy: "name; DROP TABLE users", SortDir: dto.SortDirAsc},
			wantSortBy:  constant.DefaultValueSortBy,
			wantSortDir: constant.DefaultValueSortDir,
		},
		{
			name:        "missing direction defaults",
			params:      dto.QueryParams{SortBy: "name"},
			wantSortBy:  "name",
			wantSortDir: constant.DefaultValueSortDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.RestrictSortBy("name", constant.FieldCreatedAt)

			assert.Equal(t, tt.wantSortBy, tt.params.SortBy)
			assert.Equal(t, tt.wantSortDir, tt.params.SortDir)
		})
	}
}

func TestFilterGroup_SkipsEmptyNestedGroup(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
			dto.Filter{Field: "id", Value: "r-1", Operator: dto.FilterOperatorEq, Table: "reservations"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(reservations.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "r-1"}, args)
}

func TestFilterGroup_DefaultsToAnd(t *testing.T) {
	group := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "user_id", Value: "u-1", Operator: dto.FilterOperatorEq},
		dto.Filter{Field: "start", Value: "2026-03-02T09:00:00Z", Operator: dto.FilterOperatorGreaterEq},
	}}

	where, _ := group.GetWhereClause()

	assert.Equal(t, "(user_id = :user_id AND start >= :start)", where)
}
