package report

import (
	"testing"

	"github.com/a3tai/pdf-report/internal/intelligence"
	"github.com/a3tai/pdf-report/internal/tables"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	f := NewFields()
	assert.True(t, f.SetIfAbsent("b", "1"))
	assert.True(t, f.SetIfAbsent("a", "2"))
	assert.False(t, f.SetIfAbsent("b", "3"))

	v, ok := f.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"b", "a"}, f.Keys())
	assert.Equal(t, map[string]string{"a": "2", "b": "1"}, f.Map())

	var empty *Fields
	assert.Zero(t, empty.Len())
	assert.Nil(t, empty.Keys())
	_, ok = empty.Get("a")
	assert.False(t, ok)
}

func TestMergeFields_TableValueUnchangedOnCollision(t *testing.T) {
	aggregate := tables.NewColumnAggregate().Fold([]tables.NormalizedTable{
		{Headers: []string{"Financial", "Year"}, Rows: [][]string{{"100", "2023"}, {"200", "2024"}}},
	})

	sections := intelligence.NewSectionFields()
	sections.Append(intelligence.Financial, "5%")
	sections.Append(intelligence.SWOT, "3")

	f := mergeFields(aggregate, sections, zerolog.Nop())

	got, _ := f.Get("Financial")
	assert.Equal(t, "100, 200", got)
	got, _ = f.Get("SWOT")
	assert.Equal(t, "3", got)
	assert.Equal(t, []string{"Financial", "Year", "SWOT"}, f.Keys())
}
