// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	map7mQ3o4AaycImplWobRIAjwΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	slice3feKrxQ7DΣQSWkyΣgJyh3QΞΞ = ord.NewSliceSer[string](ord.String)
)

var NodeTypeMUS = nodeTypeMUS{}

type nodeTypeMUS struct{}

func (s nodeTypeMUS) Marshal(v NodeType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s nodeTypeMUS) Unmarshal(bs []byte) (v NodeType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = NodeType(tmp)
	return
}

func (s nodeTypeMUS) Size(v NodeType) (size int) {
	return varint.Int.Size(int(v))
}

func (s nodeTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var RelationshipTypeMUS = relationshipTypeMUS{}

type relationshipTypeMUS struct{}

func (s relationshipTypeMUS) Marshal(v RelationshipType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s relationshipTypeMUS) Unmarshal(bs []byte) (v RelationshipType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = RelationshipType(tmp)
	return
}

func (s relationshipTypeMUS) Size(v RelationshipType) (size int) {
	return varint.Int.Size(int(v))
}

func (s relationshipTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var NodeRecordMUS = nodeRecordMUS{}

type nodeRecordMUS struct{}

func (s nodeRecordMUS) Marshal(v NodeRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += NodeTypeMUS.Marshal(v.Type, bs[n:])
	n += slice3feKrxQ7DΣQSWkyΣgJyh3QΞΞ.Marshal(v.Tags, bs[n:])
	n += map7mQ3o4AaycImplWobRIAjwΞΞ.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s nodeRecordMUS) Unmarshal(bs []byte) (v NodeRecord, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = NodeTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = slice3feKrxQ7DΣQSWkyΣgJyh3QΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = map7mQ3o4AaycImplWobRIAjwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s nodeRecordMUS) Size(v NodeRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += NodeTypeMUS.Size(v.Type)
	size += slice3feKrxQ7DΣQSWkyΣgJyh3QΞΞ.Size(v.Tags)
	size += map7mQ3o4AaycImplWobRIAjwΞΞ.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s nodeRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = NodeTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slice3feKrxQ7DΣQSWkyΣgJyh3QΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = map7mQ3o4AaycImplWobRIAjwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var RelationshipMUS = relationshipMUS{}

type relationshipMUS struct{}

func (s relationshipMUS) Marshal(v Relationship, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceId, bs)
	n += ord.String.Marshal(v.TargetId, bs[n:])
	n += RelationshipTypeMUS.Marshal(v.Type, bs[n:])
	n += map7mQ3o4AaycImplWobRIAjwΞΞ.Marshal(v.Properties, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s relationshipMUS) Unmarshal(bs []byte) (v Relationship, n int, err error) {
	v.SourceId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.TargetId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = RelationshipTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Properties, n1, err = map7mQ3o4AaycImplWobRIAjwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s relationshipMUS) Size(v Relationship) (size int) {
	size = ord.String.Size(v.SourceId)
	size += ord.String.Size(v.TargetId)
	size += RelationshipTypeMUS.Size(v.Type)
	size += map7mQ3o4AaycImplWobRIAjwΞΞ.Size(v.Properties)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s relationshipMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = RelationshipTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = map7mQ3o4AaycImplWobRIAjwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
