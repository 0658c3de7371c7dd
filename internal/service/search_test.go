package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/peakbook/internal/apperror"
)

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice", "hunter22")
	env.signup(t, "bob", "hunter22")
	env.createMountain(t, alice.ID, "Eiger", 3967)
	env.createMountain(t, alice.ID, "Matterhorn", 4478)

	tests := []struct {
		name          string
		query         string
		wantMountains []string
		wantUsers     []string
	}{
		{name: "mountain by name", query: "eiger", wantMountains: []string{"Eiger"}, wantUsers: []string{}},
		{name: "case insensitive", query: "MATTER", wantMountains: []string{"Matterhorn"}, wantUsers: []string{}},
		{name: "mountain by country", query: "switz", wantMountains: []string{"Eiger", "Matterhorn"}, wantUsers: []string{}},
		{name: "user by username", query: "ali", wantMountains: []string{}, wantUsers: []string{"alice"}},
		{name: "no matches", query: "everest", wantMountains: []string{}, wantUsers: []string{}},
		{name: "query is trimmed", query: "  bob  ", wantMountains: []string{}, wantUsers: []string{"bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.search.Search(context.Background(), tt.query)
			require.NoError(t, err)

			gotMountains := []string{}
			for _, m := range result.Mountains {
				gotMountains = append(gotMountains, m.Name)
			}
			gotUsers := []string{}
			for _, u := range result.Users {
				gotUsers = append(gotUsers, u.Username)
			}

			assert.ElementsMatch(t, tt.wantMountains, gotMountains)
			assert.ElementsMatch(t, tt.wantUsers, gotUsers)
		})
	}
}

func TestSearchByNickname(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auths.Signup(context.Background(), SignupInput{
		Username: "alice",
		Password: "hunter22",
		Nickname: "Summit Queen",
	}, nil)
	require.NoError(t, err)

	result, err := env.search.Search(context.Background(), "queen")
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "alice", result.Users[0].Username)
}

func TestSearchEmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"", "   "} {
		_, err := env.search.Search(context.Background(), q)
		assert.ErrorIs(t, err, apperror.ErrValidation, "query %q", q)
	}
}
