package json

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/structgraph"
	"io"
	"strings"
	"testing"
	"time"
)

type User struct {
	ID        int      `json:"id,omitempty"`
	FirstName string   `json:"firstName"`
	Photos    []*Photo `json:"photos"`
}

type Photo struct {
	ID       int       `json:"id"`
	Filename string    `json:"filename"`
	User     *User     `json:"user"`
	Users    []*User   `json:"users"`
	Taken    time.Time `json:"taken,omitempty" format:"dateFormat=YYYY-MM-DD"`
}

func newUserGraph() *User {
	user := &User{FirstName: "Umed"}
	user.Photos = []*Photo{
		{ID: 1, Filename: "me.jpg", User: user, Users: []*User{user}},
		{ID: 2, Filename: "she.jpg", User: user, Users: []*User{user}, Taken: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	return user
}

func TestMarshal(t *testing.T) {
	var testCases = []struct {
		description string
		value       interface{}
		options     []structgraph.Option
		expect      string
	}{
		{
			description: "circular graph",
			value:       newUserGraph(),
			expect:      `{"firstName":"Umed","photos":[{"id":1,"filename":"me.jpg","users":[]},{"id":2,"filename":"she.jpg","users":[],"taken":"2023-07-01"}]}`,
		},
		{
			description: "nil slice as empty",
			value:       &User{FirstName: "Solo"},
			options:     []structgraph.Option{structgraph.WithNilSliceAsEmpty(true)},
			expect:      `{"firstName":"Solo","photos":[]}`,
		},
		{
			description: "plain tree",
			value:       map[string]interface{}{"a": []interface{}{1, "x"}},
			expect:      `{"a":[1,"x"]}`,
		},
	}
	for _, testCase := range testCases {
		data, err := Marshal(testCase.value, testCase.options...)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.JSONEq(t, testCase.expect, string(data), testCase.description)
	}
}

func TestUnmarshal(t *testing.T) {
	user := &User{}
	err := Unmarshal([]byte(`{"id":"7","firstName":"Umed","photos":[{"id":1,"filename":"me.jpg","taken":"2023-07-01"},{"id":2.0,"filename":"she.jpg","users":[]}]}`), user)
	require.Nil(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "Umed", user.FirstName)
	require.Len(t, user.Photos, 2)
	assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), user.Photos[0].Taken)
	assert.Equal(t, 2, user.Photos[1].ID)
	assert.Equal(t, []*User{}, user.Photos[1].Users)

	err = Unmarshal([]byte(`{"firstName":`), user)
	assert.NotNil(t, err)
}

func TestUnmarshal_Empty(t *testing.T) {
	for _, data := range []string{"", "  \n"} {
		user := &User{FirstName: "kept"}
		require.Nil(t, Unmarshal([]byte(data), user))
		assert.Equal(t, &User{FirstName: "kept"}, user)
	}
}

func TestEncoderDecoder(t *testing.T) {
	buffer := new(bytes.Buffer)
	encoder := NewEncoder(buffer)
	require.Nil(t, encoder.Encode(newUserGraph()))
	require.Nil(t, encoder.Encode(&User{FirstName: "Other"}))

	decoder := NewDecoder(strings.NewReader(buffer.String()))
	first := &User{}
	require.Nil(t, decoder.Decode(first))
	assert.Equal(t, "Umed", first.FirstName)
	assert.Len(t, first.Photos, 2)
	second := &User{}
	require.Nil(t, decoder.Decode(second))
	assert.Equal(t, "Other", second.FirstName)
	assert.Equal(t, io.EOF, decoder.Decode(&User{}))
}
