package textfeatures

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Fever and Cold", []string{"fever", "and", "cold"}},
		{"a b cd", []string{"cd"}},
		{"covid-19 symptoms!", []string{"covid", "19", "symptoms"}},
		{"", nil},
		{"ｆｌｕ", []string{"flu"}}, // fullwidth folds under NFKC
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.input), "Tokenize(%q)", tt.input)
	}
}

func TestAnalyze_DropsStopWords(t *testing.T) {
	assert.Equal(t, []string{"fever", "cold"}, Analyze("fever and cold", true))
	assert.Equal(t, []string{"accident"}, Analyze("fire accident", true))
	assert.Equal(t, []string{"fever", "and", "cold"}, Analyze("fever and cold", false))
}

func TestFit_VocabularySortedWithoutStopWords(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"sick leave", "weekend leave", "out of station"}))
	assert.Equal(t, []string{"leave", "sick", "station", "weekend"}, v.Terms())
}

func TestFit_SmoothIDF(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"sick leave", "weekend leave", "station visit"}))

	leave, ok := v.IDF("leave")
	require.True(t, ok)
	assert.InDelta(t, math.Log(4.0/3.0)+1, leave, 1e-12)

	sick, ok := v.IDF("sick")
	require.True(t, ok)
	assert.InDelta(t, math.Log(2.0)+1, sick, 1e-12)

	_, ok = v.IDF("unknown")
	assert.False(t, ok)
}

func TestFit_Errors(t *testing.T) {
	assert.ErrorIs(t, NewVectorizer().Fit(nil), ErrEmptyCorpus)
	assert.ErrorIs(t, NewVectorizer().Fit([]string{"the and of", "a"}), ErrNoTerms)
}

func TestTransform_UnitLengthAndUnseenTokens(t *testing.T) {
	v := NewVectorizer()
	vecs, err := v.FitTransform([]string{"sick leave", "weekend leave", "hackathon"})
	require.NoError(t, err)
	for _, vec := range vecs {
		assert.InDelta(t, 1.0, vec.Norm(), 1e-12)
	}

	unseen := v.Transform("completely novel words")
	assert.Equal(t, 0, unseen.Len())

	mixed := v.Transform("sick zebra")
	require.Equal(t, 1, mixed.Len())
	assert.InDelta(t, 1.0, mixed.Values[0], 1e-12)
}

func TestTransform_EmptyInput(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"sick leave"}))
	assert.Equal(t, 0, v.Transform("").Len())
}

func TestVectorizer_JSONRoundTrip(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"sick leave", "weekend leave", "flight cancellation"}))

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var restored Vectorizer
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, v.Terms(), restored.Terms())
	assert.Equal(t, v.Transform("sick flight"), restored.Transform("sick flight"))
}

func TestVectorizer_UnmarshalRejectsMismatch(t *testing.T) {
	var v Vectorizer
	err := json.Unmarshal([]byte(`{"stop_words":true,"terms":["a","b"],"idf":[1]}`), &v)
	assert.Error(t, err)

	_, err = json.Marshal(NewVectorizer())
	assert.Error(t, err)
}

func TestSparseVector_DotAndDense(t *testing.T) {
	vec := SparseVector{Indices: []int{0, 2}, Values: []float64{2, 3}}
	assert.Equal(t, 2.0*1+3.0*4, vec.Dot([]float64{1, 100, 4}))
	assert.Equal(t, []float64{2, 0, 3}, vec.Dense(3))
}
