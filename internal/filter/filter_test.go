package filter

import (
	"testing"

	"github.com/loco-codec/loco/internal/model"
)

// TestHorizontalRampFirstRowSelectsSubLeft pins a variant of the
// horizontal-ramp scenario: an 8-pixel-wide ramp [0..7] has no row above
// it, so UP degenerates to predicting zero and SUB-left wins on row 0,
// emitting residual 0 for column 0 (left defaults to 0) and 1 for each
// of the other 7 columns.
func TestHorizontalRampFirstRowSelectsSubLeft(t *testing.T) {
	ramp := make([]int16, 8)
	for i := range ramp {
		ramp[i] = int16(i)
	}
	p := model.Pad(ramp, 8, 1)
	blockTypes := []model.BlockType{model.BlockFilter}

	rows := BuildRows(p, blockTypes, model.ProfilePhoto, CostSAD)
	if len(rows.IDs) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows.IDs))
	}
	if rows.IDs[0] != PredSubLeft {
		t.Fatalf("row 0: expected SUB-left, got %s", rows.IDs[0])
	}
	if rows.Residuals[0] != 0 {
		t.Fatalf("row 0 column 0: expected residual 0 (left defaults to 0), got %d", rows.Residuals[0])
	}
	for i := 1; i < 8; i++ {
		if rows.Residuals[i] != 1 {
			t.Fatalf("row 0 residual %d: expected 1, got %d", i, rows.Residuals[i])
		}
	}
	// Row replication means every row below row 0 is byte-identical to
	// the row above it, so UP predicts exactly and wins with a residual
	// of 0 everywhere — a strictly better choice than SUB-left's 1s.
	for y := 1; y < 8; y++ {
		if rows.IDs[y] != PredUp {
			t.Fatalf("row %d: expected UP (replicated row), got %s", y, rows.IDs[y])
		}
	}
}

func TestSolidPlaneSelectsNoneWithZeroResiduals(t *testing.T) {
	px := make([]int16, 64)
	for i := range px {
		px[i] = 5
	}
	p := model.Pad(px, 8, 8)
	blockTypes := []model.BlockType{model.BlockFilter}
	rows := BuildRows(p, blockTypes, model.ProfileUI, CostSAD)
	for _, r := range rows.Residuals {
		if r != 0 {
			t.Fatalf("expected all-zero residuals for a solid plane, got %d", r)
		}
	}
}

func TestAnchorBlocksAreSkipped(t *testing.T) {
	px := make([]int16, 64)
	for i := range px {
		px[i] = int16(i % 13)
	}
	p := model.Pad(px, 8, 8)
	blockTypes := []model.BlockType{model.BlockPalette}
	rows := BuildRows(p, blockTypes, model.ProfileUI, CostSAD)
	if len(rows.Residuals) != 0 {
		t.Fatalf("expected zero residuals when the only block is an anchor, got %d", len(rows.Residuals))
	}
}

func TestPaethOnlyOfferedToPhoto(t *testing.T) {
	uiCands := CandidatesFor(model.ProfileUI)
	for _, c := range uiCands {
		if c == PredPaeth {
			t.Fatalf("expected UI profile to exclude Paeth")
		}
	}
	photoCands := CandidatesFor(model.ProfilePhoto)
	found := false
	for _, c := range photoCands {
		if c == PredPaeth {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PHOTO profile to include Paeth")
	}
}

func TestCostModelsAgreeOnSolidPlane(t *testing.T) {
	px := make([]int16, 64)
	for i := range px {
		px[i] = 9
	}
	p := model.Pad(px, 8, 8)
	blockTypes := []model.BlockType{model.BlockFilter}
	sad := BuildRows(p, blockTypes, model.ProfileUI, CostSAD)
	ent := BuildRows(p, blockTypes, model.ProfileUI, CostEntropy)
	if len(sad.Residuals) != len(ent.Residuals) {
		t.Fatalf("expected equal residual counts regardless of cost model")
	}
}
