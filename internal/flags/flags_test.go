// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flags

import (
	"reflect"
	"testing"

	"github.com/gogpu/lazurite/internal/diff"
	"github.com/gogpu/lazurite/internal/model"
)

func TestFilterAndBias_DropsSingleValuedFlags(t *testing.T) {
	groups := []*diff.Group{
		{Condition: model.AppearanceSet{
			{"ALWAYS": "1", "QUALITY": "Low"},
		}},
		{Condition: model.AppearanceSet{
			{"ALWAYS": "1", "QUALITY": "High"},
		}},
	}

	def := BuildDefinition(groups)
	def.FilterAndBias()

	if def.Len() != 1 {
		t.Fatalf("expected only QUALITY to survive filtering, got names: %v", def.Names())
	}
	if def.Names()[0] != "QUALITY" {
		t.Fatalf("expected QUALITY to survive, got %v", def.Names())
	}
}

func TestBiasOrder_PrefersEnablingForm(t *testing.T) {
	got := biasOrder([]string{"Off", "Mid", "On"})
	want := []string{"On", "Mid", "Off"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("biasOrder = %v, want %v", got, want)
	}

	got = biasOrder([]string{"Disabled", "Enabled"})
	want = []string{"Enabled", "Disabled"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("biasOrder = %v, want %v", got, want)
	}
}

func TestBuildAllFlags_Dedup(t *testing.T) {
	fa := model.FlagAssignment{"QUALITY": "High"}
	groups := []*diff.Group{
		{Condition: model.AppearanceSet{fa, fa}},
		{Condition: model.AppearanceSet{fa}},
	}

	all := BuildAllFlags(groups)
	if len(all) != 1 {
		t.Fatalf("expected deduplication to one flag assignment, got %d", len(all))
	}
}
