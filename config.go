package prosearch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// paramsFile mirrors Params with optional fields so a parameter file only
// overrides what it mentions. Files are JSONC: comments and trailing
// commas are standardised away before decoding.
type paramsFile struct {
	Mode          *string `json:"mode"`
	K             *int    `json:"k"`
	Pattern       *string `json:"pattern"`
	TopN          *int    `json:"top_n"`
	XDrop         *int    `json:"x_drop"`
	MinSupport    *int    `json:"min_support"`
	ExtendBudget  *int    `json:"extend_budget"`
	RescoreBudget *int    `json:"rescore_budget"`
	WindowRadius  *int    `json:"window_radius"`
	Match         *int    `json:"match"`
	Mismatch      *int    `json:"mismatch"`
	GapOpen       *int    `json:"gap_open"`
	GapExtend     *int    `json:"gap_extend"`
}

// LoadParams reads a JSONC parameter file and overlays it on base. The
// result is validated by NewSearcher, not here.
func LoadParams(path string, base Params) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading params file: %w", err)
	}
	return mergeParams(data, base)
}

func mergeParams(data []byte, base Params) (Params, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return base, fmt.Errorf("invalid JSONC params: %w", err)
	}
	var file paramsFile
	if err := json.Unmarshal(standardized, &file); err != nil {
		return base, fmt.Errorf("invalid params: %w", err)
	}

	if file.Mode != nil {
		mode, err := ParseMode(*file.Mode)
		if err != nil {
			return base, err
		}
		base.Mode = mode
	}
	if file.K != nil {
		base.K = *file.K
	}
	if file.Pattern != nil {
		base.Pattern = *file.Pattern
	}
	if file.TopN != nil {
		base.TopN = *file.TopN
	}
	if file.XDrop != nil {
		base.XDrop = *file.XDrop
	}
	if file.MinSupport != nil {
		base.MinSupport = *file.MinSupport
	}
	if file.ExtendBudget != nil {
		base.ExtendBudget = *file.ExtendBudget
	}
	if file.RescoreBudget != nil {
		base.RescoreBudget = *file.RescoreBudget
	}
	if file.WindowRadius != nil {
		base.WindowRadius = *file.WindowRadius
	}
	if file.Match != nil {
		base.Match = *file.Match
	}
	if file.Mismatch != nil {
		base.Mismatch = *file.Mismatch
	}
	if file.GapOpen != nil {
		base.GapOpen = *file.GapOpen
	}
	if file.GapExtend != nil {
		base.GapExtend = *file.GapExtend
	}
	return base, nil
}
