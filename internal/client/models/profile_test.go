package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClone_IsDeep(t *testing.T) {
	orig := &UserProfile{
		FirstName: "Ada",
		Email:     "ada@example.com",
		Education: Education{
			Degree:      "Masters",
			Institution: "UET",
			IsOngoing:   false,
			EndDate:     "2020-06-01",
		},
	}

	c := orig.Clone()
	c.FirstName = "Grace"
	c.Education.Institution = "MIT"
	c.Education.IsOngoing = true

	require.Equal(t, "Ada", orig.FirstName)
	require.Equal(t, "UET", orig.Education.Institution)
	require.False(t, orig.Education.IsOngoing)
	require.Equal(t, "2020-06-01", orig.Education.EndDate)
}

func TestClone_Nil(t *testing.T) {
	var u *UserProfile
	require.Nil(t, u.Clone())
}
