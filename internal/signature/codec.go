// Package signature encodes type descriptors to a transportable string and
// back, so that types inferred while checking one compilation unit can be
// reused by a dependent unit compiled separately.
//
// Format:
//   - version byte
//   - one recursively encoded node: a tag byte (plain, union or
//     least-upper-bound) followed by the fields of that variant
//
// The byte stream is base64 encoded with no outer length or checksum.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/typesystem"
)

// Encode serializes t to its signature string.
func Encode(t typesystem.Type) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode recovers a type descriptor from a signature string. Names are
// resolved with r; a name r cannot resolve decodes to an unresolved
// placeholder instead of failing. Only structural corruption is an error.
func Decode(s string, r typesystem.Resolver) (typesystem.Type, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}
	return Read(bytes.NewReader(data), r)
}

// DecodeOrObject decodes s and falls back to the environment's Object type
// when the signature is corrupt. Unresolved names still decode to
// placeholders; only a CodecError triggers the fallback.
func DecodeOrObject(s string, r typesystem.Resolver) typesystem.Type {
	t, err := Decode(s, r)
	if err != nil {
		return objectOf(r)
	}
	return t
}

func objectOf(r typesystem.Resolver) *typesystem.Nominal {
	if o, ok := r.(interface{ Object() *typesystem.Nominal }); ok {
		return o.Object()
	}
	if r != nil {
		if n, ok := r.Resolve(config.ObjectTypeName); ok {
			return n
		}
	}
	return typesystem.ObjectType
}

// Write writes the binary form of t.
func Write(w io.Writer, t typesystem.Type) (err error) {
	defer catch("encode", &err)
	if t == nil {
		return &CodecError{Op: "encode", Err: errors.New("nil type")}
	}
	writeByte(w, config.SignatureFormatVersion)
	writeType(w, t, 0)
	return nil
}

// Read reads the binary form of a type written by Write. The reader must
// hold exactly one encoded descriptor.
func Read(r *bytes.Reader, res typesystem.Resolver) (t typesystem.Type, err error) {
	defer catch("decode", &err)
	if v := readByte(r); v != config.SignatureFormatVersion {
		panic(corruptf("unsupported format version 0x%02x", v))
	}
	t = readType(r, res, 0)
	if r.Len() != 0 {
		panic(corruptf("%d trailing bytes", r.Len()))
	}
	return t, nil
}

func writeType(w io.Writer, t typesystem.Type, depth int) {
	if depth > maxDepth {
		panic(corruptf("type nested deeper than %d", maxDepth))
	}
	switch t := t.(type) {
	case *typesystem.Union:
		writeByte(w, tagUnion)
		members := t.Delegates()
		writeInt(w, len(members))
		for _, m := range members {
			writeType(w, m, depth+1)
		}
	case *typesystem.LUB:
		writeByte(w, tagLUB)
		writeString(w, t.Name())
		writeType(w, t.Upper(), depth+1)
		ifaces := t.Interfaces()
		writeCount(w, ifaces != nil, len(ifaces))
		for _, i := range ifaces {
			writeType(w, i, depth+1)
		}
	case *typesystem.Nominal:
		if t == nil {
			panic(ioError{errors.New("nil nominal type")})
		}
		writeByte(w, tagPlain)
		writeBool(w, t.IsArray())
		if t.IsArray() {
			writeType(w, t.ComponentType(), depth+1)
			return
		}
		writeString(w, Descriptor(t))
		writeBool(w, t.UsesGenerics)
		writeCount(w, t.Generics != nil, len(t.Generics))
		for _, g := range t.Generics {
			writeGeneric(w, g, depth+1)
		}
	default:
		panic(ioError{fmt.Errorf("cannot encode %T", t)})
	}
}

func writeGeneric(w io.Writer, g *typesystem.GenericParam, depth int) {
	if g == nil || g.Type == nil {
		panic(ioError{errors.New("generic parameter without a type")})
	}
	writeBool(w, g.Placeholder)
	writeBool(w, g.Wildcard)
	writeType(w, g.Type, depth)
	writeBool(w, g.Lower != nil)
	if g.Lower != nil {
		writeType(w, g.Lower, depth)
	}
	writeCount(w, g.Upper != nil, len(g.Upper))
	for _, u := range g.Upper {
		writeType(w, u, depth)
	}
}

func readType(r *bytes.Reader, res typesystem.Resolver, depth int) typesystem.Type {
	if depth > maxDepth {
		panic(corruptf("type nested deeper than %d", maxDepth))
	}
	switch tag := readByte(r); tag {
	case tagUnion:
		n, present := readCount(r)
		if !present {
			panic(corruptf("union without members"))
		}
		members := make([]typesystem.Type, 0, n)
		for i := 0; i < n; i++ {
			members = append(members, readType(r, res, depth+1))
		}
		u, err := typesystem.NewUnion(members...)
		if err != nil {
			panic(ioError{fmt.Errorf("%w: %v", ErrCorrupt, err)})
		}
		return u
	case tagLUB:
		name := readString(r)
		upper := readType(r, res, depth+1)
		var ifaces []typesystem.Type
		if n, present := readCount(r); present {
			ifaces = make([]typesystem.Type, 0, n)
			for i := 0; i < n; i++ {
				ifaces = append(ifaces, readType(r, res, depth+1))
			}
		}
		l, err := typesystem.NewLUB(name, upper, ifaces)
		if err != nil {
			panic(ioError{fmt.Errorf("%w: %v", ErrCorrupt, err)})
		}
		return l
	case tagPlain:
		if readBool(r) {
			comp, ok := readType(r, res, depth+1).(*typesystem.Nominal)
			if !ok {
				panic(corruptf("array component is not a nominal type"))
			}
			return typesystem.ArrayOf(comp)
		}
		base := fromDescriptor(readString(r), res)
		usesGenerics := readBool(r)
		var generics []*typesystem.GenericParam
		if n, present := readCount(r); present {
			generics = make([]*typesystem.GenericParam, 0, n)
			for i := 0; i < n; i++ {
				generics = append(generics, readGeneric(r, res, depth+1))
			}
		}
		if !usesGenerics && generics == nil {
			return base
		}
		n := typesystem.Parameterize(base)
		n.UsesGenerics = usesGenerics
		n.Generics = generics
		return n
	default:
		panic(corruptf("unknown tag 0x%02x", tag))
	}
}

func readGeneric(r *bytes.Reader, res typesystem.Resolver, depth int) *typesystem.GenericParam {
	g := &typesystem.GenericParam{
		Placeholder: readBool(r),
		Wildcard:    readBool(r),
	}
	g.Type = readType(r, res, depth)
	if readBool(r) {
		g.Lower = readType(r, res, depth)
	}
	if n, present := readCount(r); present {
		g.Upper = make([]typesystem.Type, 0, n)
		for i := 0; i < n; i++ {
			g.Upper = append(g.Upper, readType(r, res, depth))
		}
	}
	return g
}
