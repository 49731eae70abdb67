package entities

// VendorCore namespaces the object types defined by this SDK.
var VendorCore = FourCC("shrd")

// WireObjectType tags a nested wire stored in a parameter.
var WireObjectType = ObjectType{Vendor: VendorCore, TypeID: FourCC("wire")}

// Process-wide type tables. They are built once at init and shared by
// reference; callers must treat them as read-only.
var (
	NoneType      = TypeInfo{Basic: TypeNone}
	AnyType       = TypeInfo{Basic: TypeAny}
	BoolType      = TypeInfo{Basic: TypeBool}
	IntType       = TypeInfo{Basic: TypeInt}
	FloatType     = TypeInfo{Basic: TypeFloat}
	StringType    = TypeInfo{Basic: TypeString}
	AnySeqType    = TypeInfo{Basic: TypeSeq}
	TableType     = TypeInfo{Basic: TypeTable}
	StringSeqType = TypeInfo{Basic: TypeSeq, Elements: Types{StringType}}
	FloatSeqType  = TypeInfo{Basic: TypeSeq, Elements: Types{FloatType}}
	// Float2SeqType is a sequence of 2D points, each a FloatSeqType.
	Float2SeqType = TypeInfo{Basic: TypeSeq, Elements: Types{FloatSeqType}}
	WireType      = TypeInfo{Basic: TypeObject, Object: WireObjectType}

	NoneTypes      = Types{NoneType}
	AnyTypes       = Types{AnyType}
	BoolTypes      = Types{BoolType}
	IntTypes       = Types{IntType}
	FloatTypes     = Types{FloatType}
	StringTypes    = Types{StringType}
	AnySeqTypes    = Types{AnySeqType}
	StringSeqTypes = Types{StringSeqType}
	FloatSeqTypes  = Types{FloatSeqType}
	Float2SeqTypes = Types{Float2SeqType}

	AnyVarTypes        = Types{AnyType, AnyType.AsVariable()}
	StringOrNone       = Types{StringType, NoneType}
	StringVarOrNone    = Types{StringType, StringType.AsVariable(), NoneType}
	IntVarOrNone       = Types{IntType.AsVariable(), NoneType}
	BoolVarOrNone      = Types{BoolType, BoolType.AsVariable(), NoneType}
	FloatVarOrNone     = Types{FloatType, FloatType.AsVariable(), NoneType}
	FloatSeqVarOrNone  = Types{FloatSeqType, FloatSeqType.AsVariable(), NoneType}
	StringSeqVarOrNone = Types{StringSeqType, StringSeqType.AsVariable(), NoneType}
	WireOrNone         = Types{WireType, NoneType}
)
