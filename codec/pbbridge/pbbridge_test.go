package pbbridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

func TestToProto_Scalars(t *testing.T) {
	c, err := cid.Sum([]byte("pb"), cid.Raw, cid.SHA2_256)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   *ipld.Value
		want *structpb.Value
	}{
		{"null", ipld.Null(), structpb.NewNullValue()},
		{"bool", ipld.Bool(true), structpb.NewBoolValue(true)},
		{"int", ipld.FromInt(-12), structpb.NewNumberValue(-12)},
		{"max safe", ipld.FromInt(int64(1 << 53)), structpb.NewNumberValue(1 << 53)},
		{"float", ipld.Float(0.5), structpb.NewNumberValue(0.5)},
		{"string", ipld.String("s"), structpb.NewStringValue("s")},
		{"bytes", ipld.Bytes([]byte("hi")), structpb.NewStringValue("aGk=")},
		{"link", ipld.Link(c), structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{"/": structpb.NewStringValue(c.String())},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToProto(tt.in)
			require.NoError(t, err)
			assert.True(t, proto.Equal(tt.want, got), "got %v", got)
		})
	}
}

func TestToProto_UnsafeIntegers(t *testing.T) {
	for _, v := range []*ipld.Value{
		ipld.FromInt(int64(1<<53 + 1)),
		ipld.FromInt(int64(-(1<<53 + 1))),
		ipld.FromInt(uint64(math.MaxUint64)),
		ipld.Integer(ipld.MinInt128),
	} {
		_, err := ToProto(v)
		assert.ErrorIs(t, err, ErrUnsafeInteger, "value %s", v)
	}

	_, err := ToProto(ipld.MapOf(ipld.Entry("n", ipld.List(ipld.FromInt(uint64(math.MaxUint64))))))
	require.ErrorIs(t, err, ErrUnsafeInteger)
	assert.Contains(t, err.Error(), `["n"]: [0]:`)
}

func TestToProto_UndefinedLink(t *testing.T) {
	_, err := ToProto(ipld.List(ipld.Link(cid.Undef)))
	assert.ErrorIs(t, err, cid.ErrUndefined)
}

func TestFromProto(t *testing.T) {
	assert.True(t, FromProto(nil).IsNull())
	assert.True(t, FromProto(&structpb.Value{}).IsNull())

	v := FromProto(structpb.NewNumberValue(42))
	n, err := ipld.Lower[int](v)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	v = FromProto(structpb.NewNumberValue(1.25))
	assert.Equal(t, ipld.KindFloat, v.Kind())

	v = FromProto(structpb.NewNumberValue(math.Copysign(0, -1)))
	assert.Equal(t, ipld.KindFloat, v.Kind())

	v = FromProto(structpb.NewNumberValue(1e300))
	assert.Equal(t, ipld.KindFloat, v.Kind())

	// A slash struct that does not hold a valid cid stays a map.
	v = FromProto(structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{"/": structpb.NewStringValue("nope")},
	}))
	assert.Equal(t, ipld.KindMap, v.Kind())
}

func TestRoundTrip(t *testing.T) {
	c, err := cid.Sum([]byte("pb"), cid.DagJSON, cid.BLAKE3)
	require.NoError(t, err)

	v := ipld.MapOf(
		ipld.Entry("n", ipld.Null()),
		ipld.Entry("b", ipld.Bool(false)),
		ipld.Entry("i", ipld.FromInt(-7)),
		ipld.Entry("f", ipld.Float(2.5)),
		ipld.Entry("s", ipld.String("text")),
		ipld.Entry("link", ipld.Link(c)),
		ipld.Entry("list", ipld.List(ipld.FromInt(1), ipld.MapOf())),
	)
	pv, err := ToProto(v)
	require.NoError(t, err)
	assert.True(t, ipld.Equal(v, FromProto(pv)))
}
