package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute_AllTypesSumsToTotal(t *testing.T) {
	for n := 0; n <= 50; n++ {
		counts := Distribute(n, nil)
		require.Equal(t, n, counts.Total(), "total for n=%d", n)
		for _, qt := range AllTypes {
			assert.GreaterOrEqual(t, counts[qt], 0)
		}
	}
}

func TestDistribute_RemainderOrder(t *testing.T) {
	tests := []struct {
		n    int
		want Counts
	}{
		{0, Counts{TypeMultipleChoice: 0, TypeTrueFalse: 0, TypeFillInBlank: 0, TypeIdentification: 0}},
		{1, Counts{TypeMultipleChoice: 1, TypeTrueFalse: 0, TypeFillInBlank: 0, TypeIdentification: 0}},
		{3, Counts{TypeMultipleChoice: 1, TypeTrueFalse: 1, TypeFillInBlank: 1, TypeIdentification: 0}},
		{4, Counts{TypeMultipleChoice: 1, TypeTrueFalse: 1, TypeFillInBlank: 1, TypeIdentification: 1}},
		{10, Counts{TypeMultipleChoice: 3, TypeTrueFalse: 3, TypeFillInBlank: 2, TypeIdentification: 2}},
		{11, Counts{TypeMultipleChoice: 3, TypeTrueFalse: 3, TypeFillInBlank: 3, TypeIdentification: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distribute(tt.n, nil), "n=%d", tt.n)
	}
}

func TestDistribute_Subset(t *testing.T) {
	subsets := [][]QuestionType{
		{TypeMultipleChoice},
		{TypeTrueFalse, TypeMultipleChoice},
		{TypeIdentification, TypeFillInBlank, TypeTrueFalse},
		AllTypes,
	}
	for _, subset := range subsets {
		in := make(map[QuestionType]bool)
		for _, qt := range subset {
			in[qt] = true
		}
		for n := 0; n <= 40; n++ {
			counts := Distribute(n, subset)
			require.Equal(t, n, counts.Total())

			lo, hi := n, 0
			for _, qt := range AllTypes {
				if !in[qt] {
					require.Zero(t, counts[qt], "type %s outside subset", qt)
					continue
				}
				lo = min(lo, counts[qt])
				hi = max(hi, counts[qt])
			}
			require.LessOrEqual(t, hi-lo, 1, "n=%d subset=%v", n, subset)
		}
	}
}

func TestDistribute_SubsetRemainderFollowsCallerOrder(t *testing.T) {
	counts := Distribute(5, []QuestionType{TypeIdentification, TypeMultipleChoice})
	assert.Equal(t, 3, counts[TypeIdentification])
	assert.Equal(t, 2, counts[TypeMultipleChoice])
}

func TestDistribute_ScenarioA(t *testing.T) {
	counts := Distribute(8, []QuestionType{TypeMultipleChoice, TypeTrueFalse})
	assert.Equal(t, Counts{
		TypeMultipleChoice: 4,
		TypeTrueFalse:      4,
		TypeFillInBlank:    0,
		TypeIdentification: 0,
	}, counts)
}

func TestDistribute_NegativeTotal(t *testing.T) {
	assert.Equal(t, 0, Distribute(-3, nil).Total())
}

func TestRequestNormalize(t *testing.T) {
	req := Request{
		Text:              "x",
		NumberOfQuestions: -1,
		QuestionTypes:     []QuestionType{TypeTrueFalse, "essay", TypeTrueFalse, TypeMultipleChoice},
	}.Normalize()

	assert.Equal(t, DifficultyModerate, req.Difficulty)
	assert.Equal(t, 0, req.NumberOfQuestions)
	assert.Equal(t, []QuestionType{TypeTrueFalse, TypeMultipleChoice}, req.QuestionTypes)
}

func TestRequestNormalize_OnlyUnknownTypes(t *testing.T) {
	req := Request{
		Text:              "x",
		NumberOfQuestions: 6,
		QuestionTypes:     []QuestionType{"essay", "matching"},
	}.Normalize()

	assert.Empty(t, req.QuestionTypes)
	assert.Equal(t, 0, req.NumberOfQuestions)
	assert.Equal(t, 0, Distribute(req.NumberOfQuestions, req.QuestionTypes).Total())
	assert.Equal(t, req, req.Normalize())
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Challenging ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyChallenging, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyModerate, d)

	_, err = ParseDifficulty("impossible")
	assert.Error(t, err)
}

func TestQuestionSet_EmptyGroupsMarshalAsArrays(t *testing.T) {
	b, err := json.Marshal(NewQuestionSet())
	require.NoError(t, err)
	assert.JSONEq(t, `{"multipleChoice":[],"trueFalse":[],"fillInTheBlank":[],"identification":[]}`, string(b))

	var s QuestionSet
	s.EnsureSlices()
	assert.True(t, s.Empty())
	assert.NotNil(t, s.Identification)
}
