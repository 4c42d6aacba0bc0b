package testing

import (
	"context"
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/internals"
)

// AwaitString blocks until o resolves and returns its value. It must be
// called from inside a running program.
func AwaitString(o pulumi.StringOutput) (string, error) {
	res, err := internals.UnsafeAwaitOutput(context.Background(), o)
	if err != nil {
		return "", err
	}
	if !res.Known {
		return "", fmt.Errorf("output is unknown")
	}
	s, _ := res.Value.(string)
	return s, nil
}

// Prop walks a nested object path in a property map, unwrapping secrets
// and output values on the way. A missing key yields a null value.
func Prop(pm resource.PropertyMap, path ...string) resource.PropertyValue {
	v := resource.NewObjectProperty(pm)
	for _, key := range path {
		v = unwrap(v)
		if !v.IsObject() {
			return resource.NewNullProperty()
		}
		next, ok := v.ObjectValue()[resource.PropertyKey(key)]
		if !ok {
			return resource.NewNullProperty()
		}
		v = next
	}
	return unwrap(v)
}

// Strings converts an array property of strings to a slice.
func Strings(v resource.PropertyValue) []string {
	v = unwrap(v)
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, e := range v.ArrayValue() {
		out = append(out, unwrap(e).StringValue())
	}
	return out
}

// StringMap converts an object property of strings to a map.
func StringMap(v resource.PropertyValue) map[string]string {
	v = unwrap(v)
	if !v.IsObject() {
		return nil
	}
	out := make(map[string]string)
	for k, e := range v.ObjectValue() {
		out[string(k)] = unwrap(e).StringValue()
	}
	return out
}

// Objects converts an array property of objects to a slice of maps.
func Objects(v resource.PropertyValue) []resource.PropertyMap {
	v = unwrap(v)
	if !v.IsArray() {
		return nil
	}
	var out []resource.PropertyMap
	for _, e := range v.ArrayValue() {
		if e = unwrap(e); e.IsObject() {
			out = append(out, e.ObjectValue())
		}
	}
	return out
}

func unwrap(v resource.PropertyValue) resource.PropertyValue {
	for {
		switch {
		case v.IsSecret():
			v = v.SecretValue().Element
		case v.IsOutput():
			v = v.OutputValue().Element
		default:
			return v
		}
	}
}
