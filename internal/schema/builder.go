// Package schema turns front-end type definitions into command tree nodes
// and resolves the names and descriptions generation uses.
package schema

import (
	"github.com/toyz/dendrite/internal/annotations"
	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
)

// Build constructs the schema node for one type definition
func Build(def models.TypeDefinition) (models.SchemaNode, error) {
	attrs, err := annotations.ResolveAttributes(def.Name, def.Annotations)
	if err != nil {
		return nil, err
	}

	switch def.Kind {
	case models.KindRecord:
		return &models.Leaf{Identifier: def.Name, Attrs: attrs}, nil
	case models.KindUnion:
		return buildGroup(def, attrs)
	default:
		return nil, errors.NewUnsupportedTopLevelShape(def.Name, def.Kind.String()).WithLocation(def.Loc)
	}
}

func buildGroup(def models.TypeDefinition, attrs models.AttributeSet) (*models.Group, error) {
	if len(def.Members) == 0 {
		return nil, errors.NewEmptyGroup(def.Name).WithLocation(def.Loc)
	}

	group := &models.Group{Identifier: def.Name, Attrs: attrs}
	seen := make(map[string]string, len(def.Members))

	for _, md := range def.Members {
		member, err := buildMember(def.Name, md)
		if err != nil {
			return nil, err
		}

		name := MemberName(member)
		if previous, dup := seen[name]; dup {
			return nil, errors.NewDuplicateMemberName(def.Name, member.Identifier, name, previous).WithLocation(md.Loc)
		}
		seen[name] = member.Identifier

		group.Members = append(group.Members, member)
	}

	return group, nil
}

func buildMember(owner string, md models.MemberDefinition) (models.Member, error) {
	attrs, err := annotations.ResolveVariantAttributes(md.Name, md.Annotations)
	if err != nil {
		return models.Member{}, err
	}

	member := models.Member{Identifier: md.Name, Attrs: attrs}
	switch len(md.Fields) {
	case 0:
	case 1:
		if md.Fields[0].Type == "" {
			return models.Member{}, errors.NewUnsupportedMemberShape(owner, md.Name, "payload has no type").WithLocation(md.Loc)
		}
		member.Payload = md.Fields[0].Type
	default:
		return models.Member{}, errors.NewUnsupportedMemberShape(owner, md.Name, "a member must wrap exactly one payload type").WithLocation(md.Loc)
	}
	return member, nil
}

// BuildAll builds every definition and reports all failures together.
// No nodes are returned if any definition fails.
func BuildAll(defs []models.TypeDefinition) ([]models.SchemaNode, error) {
	nodes := make([]models.SchemaNode, 0, len(defs))
	errs := errors.NewMultipleErrors()

	for _, def := range defs {
		node, err := Build(def)
		if err != nil {
			if de, ok := err.(errors.DendriteError); ok {
				errs.Add(de)
			} else {
				errs.Add(errors.WrapWithOperation("build schema for", def.Name, err))
			}
			continue
		}
		nodes = append(nodes, node)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return nodes, nil
}
