package awareness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Garsondee/map-awareness/internal/host"
)

const fallbackColor host.Color = 0xff0000

func TestResolveOwnerByAssignedCharacter(t *testing.T) {
	hero := &fakeActor{id: "hero", kind: KindCharacter, ownership: map[string]host.Permission{
		"gm": host.PermissionOwner,
	}}
	users := []host.User{
		&fakeUser{id: "gm", gm: true, color: "#ffffff"},
		&fakeUser{id: "alice", character: "hero", color: "#3366cc"},
	}

	got := ResolveOwnerColor(hero, users, "bob", fallbackColor)
	assert.Equal(t, host.Color(0x3366cc), got.Color)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, OpacityOthers, got.Opacity)
}

func TestResolveOwnerByHighestOwnership(t *testing.T) {
	hero := &fakeActor{id: "hero", kind: KindCharacter, ownership: map[string]host.Permission{
		host.DefaultOwnership: host.PermissionOwner,
		"alice":               host.PermissionObserver,
		"bob":                 host.PermissionOwner,
		"carol":               host.PermissionOwner,
	}}
	users := []host.User{
		&fakeUser{id: "alice", color: "#111111"},
		&fakeUser{id: "carol", color: "#333333"},
		&fakeUser{id: "bob", color: "0x222222"},
	}

	got := ResolveOwnerColor(hero, users, "bob", fallbackColor)
	assert.Equal(t, "bob", got.OwnerID, "ties go to the lowest user id")
	assert.Equal(t, host.Color(0x222222), got.Color)
	assert.Equal(t, OpacityMine, got.Opacity)
}

func TestResolveOwnerIgnoresDefaultAndUnknownUsers(t *testing.T) {
	hero := &fakeActor{id: "hero", kind: KindCharacter, ownership: map[string]host.Permission{
		host.DefaultOwnership: host.PermissionOwner,
		"ghost":               host.PermissionOwner,
		"alice":               host.PermissionNone,
	}}
	users := []host.User{&fakeUser{id: "alice", color: "#111111"}}

	got := ResolveOwnerColor(hero, users, "alice", fallbackColor)
	assert.Equal(t, "", got.OwnerID)
	assert.Equal(t, fallbackColor, got.Color)
	assert.Equal(t, OpacityOthers, got.Opacity)
}

func TestResolveOwnerWithoutColorFallsBack(t *testing.T) {
	hero := &fakeActor{id: "hero", kind: KindCharacter}
	users := []host.User{&fakeUser{id: "alice", character: "hero"}}

	got := ResolveOwnerColor(hero, users, "alice", fallbackColor)
	assert.Equal(t, fallbackColor, got.Color)
	assert.Equal(t, OpacityMine, got.Opacity)
}

func TestResolveOwnerMalformedColorFallsBack(t *testing.T) {
	hero := &fakeActor{id: "hero", kind: KindCharacter}
	users := []host.User{nil, &fakeUser{id: "alice", character: "hero", color: "blue-ish"}}

	got := ResolveOwnerColor(hero, users, "", fallbackColor)
	assert.Equal(t, fallbackColor, got.Color)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, OpacityOthers, got.Opacity)
}
