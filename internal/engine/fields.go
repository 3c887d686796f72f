package engine

// PathName returns the path of o, or "" when o is nil.
func PathName(o Object) string {
	if o == nil {
		return ""
	}
	return o.PathName()
}

// Name returns the short name of o, or "" when o is nil.
func Name(o Object) string {
	if o == nil {
		return ""
	}
	return o.Name()
}

// ObjectField reads an object-valued field. Nil receivers, missing fields and
// non-object values all read as nil.
func ObjectField(o Object, field string) Object {
	if o == nil {
		return nil
	}
	v, _ := o.Get(field).(Object)
	return v
}

// ObjectsField reads a list-of-objects field.
func ObjectsField(o Object, field string) []Object {
	if o == nil {
		return nil
	}
	v, _ := o.Get(field).([]Object)
	return v
}

// IntField reads an integer field, defaulting to 0.
func IntField(o Object, field string) int {
	if o == nil {
		return 0
	}
	switch v := o.Get(field).(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

// PoolsField reads a pool-list field.
func PoolsField(o Object, field string) []PoolEntry {
	if o == nil {
		return nil
	}
	v, _ := o.Get(field).([]PoolEntry)
	return v
}
