package dagjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

func TestEncode_Deterministic(t *testing.T) {
	v := ipld.MapOf(
		ipld.Entry("z", ipld.FromInt(1)),
		ipld.Entry("a", ipld.List(ipld.Bool(true), ipld.Null())),
		ipld.Entry("m", ipld.String("<tag>&")),
	)
	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null],"m":"<tag>&","z":1}`, string(out))

	again, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestEncode_Scalars(t *testing.T) {
	c, err := cid.Sum([]byte("x"), cid.Raw, cid.SHA2_256)
	require.NoError(t, err)

	tests := []struct {
		name string
		v    *ipld.Value
		want string
	}{
		{"null", ipld.Null(), "null"},
		{"int", ipld.FromInt(-42), "-42"},
		{"int128", ipld.Integer(ipld.MaxInt128), "170141183460469231731687303715884105727"},
		{"whole float", ipld.Float(2), "2.0"},
		{"float", ipld.Float(0.25), "0.25"},
		{"exp float", ipld.Float(1e300), "1e+300"},
		{"bytes", ipld.Bytes([]byte("hi")), `{"/":{"bytes":"aGk"}}`},
		{"link", ipld.Link(c), `{"/":"` + c.String() + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestEncode_RejectsNonFinite(t *testing.T) {
	_, err := Encode(ipld.List(ipld.Float(math.NaN())))
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = Encode(ipld.MapOf(ipld.Entry("x", ipld.Float(math.Inf(1)))))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestEncode_RejectsReservedShapes(t *testing.T) {
	tests := map[string]*ipld.Value{
		"bytes shape": ipld.MapOf(ipld.Entry("/", ipld.MapOf(ipld.Entry("bytes", ipld.String("AQI"))))),
		"link shape":  ipld.MapOf(ipld.Entry("/", ipld.String("x"))),
		"nested":      ipld.List(ipld.MapOf(ipld.Entry("/", ipld.String("")))),
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(v)
			assert.ErrorIs(t, err, ErrReservedMap)
		})
	}
}

func TestEncode_SlashMapsThatDecodeAsMaps(t *testing.T) {
	// These keep their map kind through a round trip.
	for _, v := range []*ipld.Value{
		ipld.MapOf(ipld.Entry("/", ipld.FromInt(1))),
		ipld.MapOf(ipld.Entry("/", ipld.MapOf(ipld.Entry("bytes", ipld.FromInt(1))))),
		ipld.MapOf(ipld.Entry("/", ipld.MapOf(ipld.Entry("bytes", ipld.String("aGk")), ipld.Entry("x", ipld.Null())))),
		ipld.MapOf(ipld.Entry("/", ipld.String("x")), ipld.Entry("y", ipld.Null())),
	} {
		data, err := Encode(v)
		require.NoError(t, err, "%s", v)
		back, err := Decode(data)
		require.NoError(t, err, "%s", data)
		assert.True(t, ipld.Equal(v, back), "%s read back as %s", v, back)
	}
}

func TestEncode_RejectsUndefinedLink(t *testing.T) {
	_, err := Encode(ipld.Link(cid.Undef))
	assert.ErrorIs(t, err, cid.ErrUndefined)

	_, err = Encode(ipld.MapOf(ipld.Entry("found", ipld.KindLink.Zero())))
	assert.ErrorIs(t, err, cid.ErrUndefined)

	_, _, err = Sum(ipld.Link(cid.Undef), cid.SHA2_256)
	assert.ErrorIs(t, err, cid.ErrUndefined)
}

func TestRoundTrip(t *testing.T) {
	c, err := cid.Sum([]byte("payload"), cid.DagJSON, cid.BLAKE3)
	require.NoError(t, err)

	v := ipld.MapOf(
		ipld.Entry("bool", ipld.Bool(false)),
		ipld.Entry("big", ipld.Integer(ipld.MinInt128)),
		ipld.Entry("float", ipld.Float(2)),
		ipld.Entry("str", ipld.String("héllo")),
		ipld.Entry("bytes", ipld.Bytes([]byte{0, 1, 254, 255})),
		ipld.Entry("link", ipld.Link(c)),
		ipld.Entry("list", ipld.List(ipld.Null(), ipld.FromInt(uint64(math.MaxUint64)))),
		ipld.Entry("nested", ipld.MapOf(ipld.Entry("/", ipld.FromInt(1)), ipld.Entry("k", ipld.Null()))),
	)

	data, err := Encode(v)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, ipld.Equal(v, back), "round trip mismatch:\n%s\n%s", v, back)

	f, err := ipld.Field[float64](back, "float")
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)
}

func TestDecode_Numbers(t *testing.T) {
	v, err := Decode([]byte("18446744073709551616"))
	require.NoError(t, err)
	i, err := v.AsInt128()
	require.NoError(t, err)
	assert.Equal(t, ipld.Int128{Hi: 1, Lo: 0}, i)

	v, err = Decode([]byte("1.5e3"))
	require.NoError(t, err)
	assert.Equal(t, ipld.KindFloat, v.Kind())

	_, err = Decode([]byte("100000000000000000000000000000000000000000"))
	assert.ErrorIs(t, err, ipld.ErrInt128Range)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":    `{"a":`,
		"trailing":  `1 2`,
		"bad link":  `{"/":"not-a-cid"}`,
		"bad bytes": `{"/":{"bytes":"***"}}`,
		"empty":     ``,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestDecode_SlashMapsThatAreNotReserved(t *testing.T) {
	v, err := Decode([]byte(`{"/":{"bytes":"aGk","extra":1}}`))
	require.NoError(t, err)
	assert.Equal(t, ipld.KindMap, v.Kind())

	v, err = Decode([]byte(`{"/":1,"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
}

func TestSum(t *testing.T) {
	v := ipld.MapOf(ipld.Entry("hello", ipld.String("world")))
	c, data, err := Sum(v, cid.SHA2_256)
	require.NoError(t, err)
	assert.Equal(t, cid.DagJSON, c.Codec())

	direct, err := cid.Sum(data, cid.DagJSON, cid.SHA2_256)
	require.NoError(t, err)
	assert.Equal(t, direct, c)

	// Key order does not change the identifier.
	other := ipld.Map(map[string]*ipld.Value{"hello": ipld.String("world")})
	c2, _, err := Sum(other, cid.SHA2_256)
	require.NoError(t, err)
	assert.Equal(t, c, c2)
}
