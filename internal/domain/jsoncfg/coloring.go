package jsoncfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MinSelectedColors is the smallest palette the optimizer accepts.
	MinSelectedColors = 2
	// MaxSelectedColors caps the palette to keep the search space bounded.
	MaxSelectedColors = 12
	// DefaultGenerations mirrors the single NSDE generation run in production.
	DefaultGenerations = 1
	// MaxGenerations limits per-request overrides.
	MaxGenerations = 50
)

// ColoringRequest is the canonical job payload persisted with every coloring
// job and handed to the engine.
type ColoringRequest struct {
	UlosType    string   `json:"ulos_type" validate:"required,max=64"`
	MotifID     string   `json:"motif_id" validate:"max=128"`
	ColorCodes  []string `json:"color_codes" validate:"min=2,max=12,unique,dive,required"`
	Generations int      `json:"generations" validate:"min=1,max=50"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseColorList splits the comma-joined hidden field value. Empty tokens are
// dropped and order is preserved.
func ParseColorList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		out = append(out, code)
	}
	return out
}

// Normalize trims identifiers, lower-cases the fabric type, upper-cases color
// codes, drops duplicate codes (first occurrence wins) and applies defaults.
func (r *ColoringRequest) Normalize() {
	if r == nil {
		return
	}
	r.UlosType = strings.ToLower(strings.TrimSpace(r.UlosType))
	r.MotifID = strings.TrimSpace(r.MotifID)
	seen := make(map[string]struct{}, len(r.ColorCodes))
	codes := r.ColorCodes[:0]
	for _, code := range r.ColorCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	r.ColorCodes = codes
	if r.Generations <= 0 {
		r.Generations = DefaultGenerations
	}
	if r.Generations > MaxGenerations {
		r.Generations = MaxGenerations
	}
}

// Validate ensures the request satisfies the structural contract. Catalog
// membership (known type, known colors, motif ownership) is checked by the
// caller.
func (r ColoringRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on %q", fieldName(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func fieldName(goName string) string {
	switch goName {
	case "UlosType":
		return "ulos_type"
	case "MotifID":
		return "motif_id"
	case "ColorCodes":
		return "color_codes"
	case "Generations":
		return "generations"
	default:
		return strings.ToLower(goName)
	}
}

func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
