package gui

import (
	"errors"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// Names of the protected variables injected by containers.
const (
	ContextName = "GUI.Context"
	ParentName  = "GUI.UI.Parent"
	LinesName   = "UI.Lines"
)

var (
	// ContextObjectType tags the root surface published under GUI.Context.
	ContextObjectType = entities.ObjectType{Vendor: entities.VendorCore, TypeID: entities.FourCC("eguC")}
	// UIObjectType tags the region surface published under GUI.UI.Parent.
	UIObjectType = entities.ObjectType{Vendor: entities.VendorCore, TypeID: entities.FourCC("eguU")}

	ContextType = entities.TypeInfo{Basic: entities.TypeObject, Object: ContextObjectType}
	UIType      = entities.TypeInfo{Basic: entities.TypeObject, Object: UIObjectType}
	// LinesType is the accumulator of UI.Plot: a sequence of point lists.
	LinesType = entities.TypeInfo{Basic: entities.TypeSeq, Elements: entities.Types{entities.Float2SeqType}}
)

var (
	errNoParent  = errors.New("no UI parent")
	errNoContext = errors.New("no UI context")
)

var parentRequirement = entities.ExposedTypes{
	{Name: ParentName, Help: "The parent UI surface.", Type: UIType},
}

// parentVar binds the protected parent variable.
func parentVar() shards.ParamVar {
	return shards.NewParamVar(entities.ContextVar(ParentName))
}

// surfaceOf extracts a surface published under the given object type.
func surfaceOf(v entities.Var, typ entities.ObjectType, missing error) (ports.Surface, error) {
	if v.IsNone() {
		return nil, missing
	}
	handle, err := v.AsObject(typ)
	if err != nil {
		return nil, err
	}
	s, ok := handle.(ports.Surface)
	if !ok {
		return nil, missing
	}
	return s, nil
}

// withParent publishes s as the parent surface while body runs and restores
// the previous parent afterwards.
func withParent(parent *shards.ParamVar, s ports.Surface, body func() error) error {
	prev := parent.Get()
	parent.Set(entities.NewObject(UIObjectType, s))
	defer parent.Set(prev)
	return body()
}
