package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-rawmail/address"
)

func TestParse(t *testing.T) {
	t.Parallel()

	l := address.Parse("Alice <alice@example.com>, bob@example.com")
	assert.Equal(t, address.List{
		{Name: "Alice", Address: "alice@example.com"},
		{Address: "bob@example.com"},
	}, l)
}

func TestParse_ManyValues(t *testing.T) {
	t.Parallel()

	l := address.Parse("a@example.com", "b@example.com, c@example.com")
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, l.Addresses())
}

func TestParse_EncodedName(t *testing.T) {
	t.Parallel()

	l := address.Parse("=?UTF-8?Q?J=C3=B6rg?= <jorg@example.com>")
	require.Len(t, l, 1)
	assert.Equal(t, "Jörg", l[0].Name)
	assert.Equal(t, "jorg@example.com", l[0].Address)
}

func TestParse_QuotedName(t *testing.T) {
	t.Parallel()

	l := address.Parse(`"Smith, John" <john@example.com>`)
	require.Len(t, l, 1)
	assert.Equal(t, "Smith, John", l[0].Name)
	assert.Equal(t, "john@example.com", l[0].Address)
}

func TestParse_Group(t *testing.T) {
	t.Parallel()

	l := address.Parse("Friends: a@example.com, b@example.com;")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, l.Addresses())

	l = address.Parse("Friends: =?utf-8?q?J=C3=BCrgen?= <j@example.com>;", "z@example.com")
	assert.Equal(t, address.List{
		{Name: "Jürgen", Address: "j@example.com"},
		{Address: "z@example.com"},
	}, l)

	assert.Empty(t, address.Parse("undisclosed-recipients:;"))
}

func TestParse_Lenient(t *testing.T) {
	t.Parallel()

	l := address.Parse("Alice Smith alice@example.com, , last@example.com")
	assert.Equal(t, []string{"alice@example.com", "last@example.com"}, l.Addresses())
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	l := address.Parse()
	assert.NotNil(t, l)
	assert.Empty(t, l)
}

func TestList_AllDefault(t *testing.T) {
	t.Parallel()

	assert.False(t, address.List{}.AllDefault())
	assert.True(t, address.List{{Address: "a@example.com", Default: true}}.AllDefault())
	assert.False(t, address.List{
		{Address: "a@example.com", Default: true},
		{Address: "b@example.com"},
	}.AllDefault())
}

func TestList_First(t *testing.T) {
	t.Parallel()

	_, ok := address.List{}.First()
	assert.False(t, ok)

	e, ok := address.List{{Address: "a@example.com"}, {Address: "b@example.com"}}.First()
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", e.Address)
}

func TestList_String(t *testing.T) {
	t.Parallel()

	l := address.List{
		{Name: "Alice", Address: "alice@example.com"},
		{Address: "bob@example.com"},
		{Name: "Smith, John", Address: "john@example.com"},
		{Name: `Say "hi"`, Address: "hi@example.com"},
	}
	assert.Equal(t,
		`Alice <alice@example.com>, bob@example.com, "Smith, John" <john@example.com>, "Say \"hi\"" <hi@example.com>`,
		l.String())
}

func TestEntry_String_Unicode(t *testing.T) {
	t.Parallel()

	e := address.Entry{Name: "Jörg", Address: "jorg@bücher.example"}
	assert.Equal(t, "=?UTF-8?Q?J=C3=B6rg?= <jorg@xn--bcher-kva.example>", e.String())
}

func TestList_RoundTrip(t *testing.T) {
	t.Parallel()

	in := address.List{
		{Name: "Jörg", Address: "jorg@example.com"},
		{Name: "Smith, John", Address: "john@example.com"},
	}
	assert.Equal(t, in, address.Parse(in.String()))
}
