package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplayRoundtrip(t *testing.T) {
	cases := []string{"/", "/a", "/a/b", "/a/b/c", "/testing"}
	for _, c := range cases {
		got := Parse(c).String()
		assert.Equal(t, c, got)
	}
}

func TestParseTidiesSlashes(t *testing.T) {
	assert.Equal(t, "/a/b", Parse("//a//b//").String())
	assert.Equal(t, "/", Parse("").String())
	assert.Equal(t, "/", Parse("///").String())
}

func TestVerifyTestingPosition(t *testing.T) {
	assert.NoError(t, Parse("testing").Verify())
	assert.NoError(t, Parse("/testing").Verify())
	assert.Error(t, Parse("testing/x").Verify())
	assert.Error(t, Parse("/testing/x").Verify())
}

func TestVerifyNulByte(t *testing.T) {
	bad := Channel{components: []string{"a\x00b"}}
	assert.Error(t, bad.Verify())
}

func TestContainsBasic(t *testing.T) {
	p := Parse("/a")
	c := Parse("/a/b")
	assert.NoError(t, Contains(p, c))
	assert.Error(t, Contains(c, p))
}

func TestContainsTestingException(t *testing.T) {
	p := Parse("/a/testing")
	c := Parse("/a/b/testing")
	assert.NoError(t, Contains(p, c))

	notTesting := Parse("/a/stable")
	assert.Error(t, Contains(p, notTesting))
}

func TestContainsTestingExceptionRequiresPrefixMatch(t *testing.T) {
	p := Parse("/a/testing")
	c := Parse("/z/q/testing")
	assert.Error(t, Contains(p, c))

	p = Parse("/b/testing")
	c = Parse("/a/b/testing")
	assert.Error(t, Contains(p, c))
}

func TestContainsIrreflexiveAsymmetry(t *testing.T) {
	p := Parse("/a")
	c := Parse("/a/b")
	assert.NoError(t, Contains(p, c))
	assert.Error(t, Contains(c, p))
	assert.NoError(t, Contains(p, p))
}

func TestParseCoords(t *testing.T) {
	v, ch := ParseCoords("")
	assert.Nil(t, v)
	assert.Nil(t, ch)

	v, ch = ParseCoords("1")
	if assert.NotNil(t, v) {
		assert.Equal(t, uint32(1), *v)
	}
	assert.Nil(t, ch)

	v, ch = ParseCoords("/a")
	assert.Nil(t, v)
	if assert.NotNil(t, ch) {
		assert.Equal(t, "/a", ch.String())
	}

	v, ch = ParseCoords("/1")
	if assert.NotNil(t, v) {
		assert.Equal(t, uint32(1), *v)
	}
	if assert.NotNil(t, ch) {
		assert.Equal(t, "/", ch.String())
	}

	v, ch = ParseCoords("/1/")
	assert.Nil(t, v)
	if assert.NotNil(t, ch) {
		assert.Equal(t, "/1", ch.String())
	}

	v, ch = ParseCoords("/a/1")
	if assert.NotNil(t, v) {
		assert.Equal(t, uint32(1), *v)
	}
	if assert.NotNil(t, ch) {
		assert.Equal(t, "/a", ch.String())
	}
}

func TestHTTPFSString(t *testing.T) {
	c := Parse("/a/b")
	assert.Equal(t, "channels/a/channels/b", c.HTTPString())
	assert.Equal(t, c.HTTPString(), c.FSString())
	assert.Equal(t, "", Default().HTTPString())
}

func TestIsTesting(t *testing.T) {
	assert.True(t, Parse("/a/testing").IsTesting())
	assert.False(t, Parse("/a/testing/b").IsTesting())
	assert.False(t, Default().IsTesting())
}
