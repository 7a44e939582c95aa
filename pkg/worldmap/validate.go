package worldmap

import (
	"fmt"
	"strings"

	"github.com/hmiyata/story-atlas/pkg/geo"
)

// Severity grades a validation result. Only genuinely unknown names and
// geometrically implausible jumps are errors; everything else degrades to
// advisory info so the narrative keeps its flexibility.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationResult is the validator's answer about one claimed move.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Sentinel origin values meaning "the character has not appeared yet".
var unknownOrigins = map[string]bool{
	"unknown": true,
	"不明":      true,
	"":        true,
}

// TravelValidator judges whether a claimed move between two free-text place
// names is plausible under the system's geography.
type TravelValidator struct {
	system *WorldMapSystem
}

// NewTravelValidator returns a validator over the given system. A nil system
// means no geography is configured; validation then short-circuits to
// permissive results instead of blocking narrative generation.
func NewTravelValidator(system *WorldMapSystem) *TravelValidator {
	return &TravelValidator{system: system}
}

// Validate checks the move of characterName from fromName to toName claimed
// in the given chapter. It never returns an error value: every failure mode
// is expressed in the result's severity.
func (v *TravelValidator) Validate(fromName, toName, characterName string, chapter int) ValidationResult {
	if v.system == nil {
		return ValidationResult{
			IsValid:  true,
			Message:  "No world map is configured; travel cannot be checked.",
			Severity: SeverityInfo,
		}
	}

	// First appearance: an unknown origin is always acceptable.
	if unknownOrigins[strings.ToLower(strings.TrimSpace(fromName))] {
		return ValidationResult{
			IsValid:  true,
			Message:  fmt.Sprintf("%s appears at %s for the first time.", characterName, toName),
			Severity: SeverityInfo,
		}
	}

	from, res := v.resolveOrExplain(fromName)
	if from == nil {
		return res
	}
	to, res := v.resolveOrExplain(toName)
	if to == nil {
		return res
	}

	return v.judge(*from, *to, characterName, chapter)
}

// resolveOrExplain resolves one name, or builds the result explaining why it
// could not be resolved: descriptive scene phrases are accepted with a note,
// anything else is an error with correction suggestions.
func (v *TravelValidator) resolveOrExplain(name string) (*ResolvedLocation, ValidationResult) {
	if resolved := ResolveName(v.system, name); resolved != nil {
		return resolved, ValidationResult{}
	}

	if IsDescriptivePhrase(name) {
		return nil, ValidationResult{
			IsValid:  true,
			Message:  fmt.Sprintf("%q describes a scene rather than a mapped place; a concrete place name would be clearer.", name),
			Severity: SeverityInfo,
		}
	}

	msg := fmt.Sprintf("Unknown location %q.", name)
	if suggestions := SuggestNames(v.system, name, 3); len(suggestions) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(suggestions, ", "))
	}
	return nil, ValidationResult{
		IsValid:  false,
		Message:  msg,
		Severity: SeverityError,
	}
}

// judge decides plausibility for two resolved locations, in order: direct
// connection, shared region, then raw geometric distance.
func (v *TravelValidator) judge(from, to ResolvedLocation, characterName string, chapter int) ValidationResult {
	if from.Location.ID == to.Location.ID {
		return ValidationResult{
			IsValid:  true,
			Message:  fmt.Sprintf("%s remains at %s.", characterName, to.Location.Name),
			Severity: SeverityInfo,
		}
	}

	if conn := v.system.ConnectionBetween(from.Location.ID, to.Location.ID); conn != nil {
		msg := fmt.Sprintf("%s and %s are connected by a %s.", from.Location.Name, to.Location.Name, conn.ConnectionType)
		if tt := v.system.TravelTimeFor(conn.ID, MethodWalking); tt != nil {
			msg += fmt.Sprintf(" Travel on foot takes %s.", DescribeDuration(tt.BaseTime))
		}
		return ValidationResult{IsValid: true, Message: msg, Severity: SeverityInfo}
	}

	fromRegion := v.system.RegionOf(from.Location.ID)
	toRegion := v.system.RegionOf(to.Location.ID)
	if fromRegion != nil && fromRegion == toRegion {
		return ValidationResult{
			IsValid:  true,
			Message:  fmt.Sprintf("%s and %s lie in the same region.", from.Location.Name, to.Location.Name),
			Severity: SeverityInfo,
		}
	}

	if from.Level == LevelWorld && to.Level == LevelWorld {
		dist := geo.Distance(from.Location.Coordinates, to.Location.Coordinates)
		if dist > worldMaxConnectionDistance {
			km := dist * KmPerUnit(LevelWorld)
			return ValidationResult{
				IsValid: false,
				Message: fmt.Sprintf("%s is roughly %.0f km from %s with no connecting route; %s cannot make that trip within chapter %d.",
					to.Location.Name, km, from.Location.Name, characterName, chapter),
				Severity: SeverityError,
			}
		}
	}

	return ValidationResult{
		IsValid:  true,
		Message:  fmt.Sprintf("No modeled route between %s and %s, but the distance is plausible.", from.Location.Name, to.Location.Name),
		Severity: SeverityInfo,
	}
}
