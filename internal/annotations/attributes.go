package annotations

import (
	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
)

// Recognized keys
const (
	KeyName  = "name"
	KeyAbout = "about"
	KeyHelp  = "help"
)

// Scope lists the keys an annotation accepts in one position
type Scope struct {
	Name       string
	Keys       []string
	AllowWords bool // bare words become settings
}

var (
	// CommandScope applies to annotated types
	CommandScope = Scope{Name: "command", Keys: []string{KeyName, KeyAbout}, AllowWords: true}
	// VariantScope applies to members of a command group
	VariantScope = Scope{Name: "variant", Keys: []string{KeyName, KeyHelp}}
)

func (s Scope) allows(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// scoped is the scope-independent result of resolving raw entries
type scoped struct {
	values map[string]string
	words  []string
}

func (s Scope) resolve(owner string, raw []models.RawAnnotation) (*scoped, error) {
	out := &scoped{values: make(map[string]string)}

	for _, entry := range raw {
		if entry.IsWord() {
			if !s.AllowWords {
				return nil, errors.NewUnknownAttributeKey(entry.Key, owner, s.Keys...).WithLocation(entry.Loc)
			}
			out.words = append(out.words, entry.Key)
			continue
		}

		if !s.allows(entry.Key) {
			return nil, errors.NewUnknownAttributeKey(entry.Key, owner, s.Keys...).WithLocation(entry.Loc)
		}
		if entry.Value.Kind != models.LiteralString {
			return nil, errors.NewInvalidAttributeValue(entry.Key, owner, entry.Value.Kind.String()).WithLocation(entry.Loc)
		}
		if _, seen := out.values[entry.Key]; seen {
			return nil, errors.NewDuplicateField(entry.Key, owner).WithLocation(entry.Loc)
		}
		out.values[entry.Key] = entry.Value.Raw
	}

	return out, nil
}

func (s *scoped) lookup(key string) *string {
	v, ok := s.values[key]
	if !ok {
		return nil
	}
	return &v
}

// ParseAttributes resolves the entries attached to a type into an AttributeSet.
// Bare words become settings in the order they appear.
func ParseAttributes(owner string, raw []models.RawAnnotation) (models.AttributeSet, error) {
	res, err := CommandScope.resolve(owner, raw)
	if err != nil {
		return models.AttributeSet{}, err
	}
	return models.AttributeSet{
		Name:     res.lookup(KeyName),
		About:    res.lookup(KeyAbout),
		Settings: res.words,
	}, nil
}

// ParseVariantAttributes resolves the entries attached to a command group member
func ParseVariantAttributes(owner string, raw []models.RawAnnotation) (models.VariantAttributeSet, error) {
	res, err := VariantScope.resolve(owner, raw)
	if err != nil {
		return models.VariantAttributeSet{}, err
	}
	return models.VariantAttributeSet{
		Name: res.lookup(KeyName),
		Help: res.lookup(KeyHelp),
	}, nil
}

// ResolveAttributes parses and resolves a type's annotation blocks
func ResolveAttributes(owner string, blocks []models.AnnotationBlock) (models.AttributeSet, error) {
	raw, err := Collect(owner, blocks)
	if err != nil {
		return models.AttributeSet{}, err
	}
	return ParseAttributes(owner, raw)
}

// ResolveVariantAttributes parses and resolves a member's annotation blocks
func ResolveVariantAttributes(owner string, blocks []models.AnnotationBlock) (models.VariantAttributeSet, error) {
	raw, err := Collect(owner, blocks)
	if err != nil {
		return models.VariantAttributeSet{}, err
	}
	return ParseVariantAttributes(owner, raw)
}
