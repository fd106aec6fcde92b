package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid date", input: `"2023-09-01"`, want: NewDate(2023, time.September, 1)},
		{name: "null leaves zero value", input: `null`, want: Date{}},
		{name: "wrong layout", input: `"09/01/2023"`, wantErr: true},
		{name: "not a string", input: `20230901`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time))
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(data))
}

func TestResumeMetadata_OptionalDatesRoundTrip(t *testing.T) {
	input := `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "+44 20 7946 0000",
		"skills": ["Go"],
		"education": [{"institution": "UCL", "degree": "BSc", "field_of_study": "Mathematics", "start_date": "2019-09-01", "end_date": null}],
		"experience": []
	}`

	var resume ResumeMetadata
	require.NoError(t, json.Unmarshal([]byte(input), &resume))
	require.Len(t, resume.Education, 1)
	assert.Nil(t, resume.Education[0].EndDate)
	assert.Equal(t, "2019-09-01", resume.Education[0].StartDate.String())
	assert.Nil(t, resume.Summary)
}
