package attrdistrict

import (
	"errors"
	"testing"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
)

func TestAssign_AtLeastOneDistrict_OK(t *testing.T) {
	features := []*building.Feature{
		{ID: "a", District: "75101"},
		{ID: "b"},
	}
	if err := New().Assign(features); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if features[1].District != "" {
		t.Fatalf("district=%q want untouched", features[1].District)
	}
}

func TestAssign_NoDistrictAnywhere_Rejected(t *testing.T) {
	features := []*building.Feature{{ID: "a"}, {ID: "b"}}
	if err := New().Assign(features); !errors.Is(err, ErrNoDistricts) {
		t.Fatalf("err=%v want ErrNoDistricts", err)
	}
}

func TestAssign_EmptySlice_OK(t *testing.T) {
	if err := New().Assign(nil); err != nil {
		t.Fatalf("assign: %v", err)
	}
}
