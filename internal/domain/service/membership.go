package service

import (
	"chatspace/pkg/errors"
)

// Membership is a value copy of a chat's member and admin sets. The engine
// never touches persisted state; callers read the sets out of a chat, apply a
// transition and persist the result themselves.
type Membership struct {
	Users  []string
	Admins []string
}

func NewMembership(users, admins []string) Membership {
	return Membership{
		Users:  append([]string(nil), users...),
		Admins: append([]string(nil), admins...),
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	filtered := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// AddUser appends newUserID to the member set. Adding an existing member is
// rejected rather than silently ignored so that clients learn the add was
// redundant.
func AddUser(state Membership, newUserID string) (Membership, error) {
	if contains(state.Users, newUserID) {
		return state, errors.Conflict("User is already a member of this chat")
	}
	next := NewMembership(state.Users, state.Admins)
	next.Users = append(next.Users, newUserID)
	return next, nil
}

// RemoveUser drops userID from both sets. Only an admin may remove members.
// When the removal leaves a single member governed by nobody, that member is
// promoted, so a surviving chat never has members without an admin. The
// returned flag signals that the member set emptied and the chat must be
// deleted instead of persisted.
func RemoveUser(state Membership, userID, requesterID string) (Membership, bool, error) {
	if !contains(state.Admins, requesterID) {
		return state, false, errors.Forbidden("You have no permission to update the group chat", nil)
	}
	return shrink(state, userID)
}

// Leave removes userID at their own request. No admin gate: anybody may walk
// out of a chat they are in. Trimming and promotion behave as in RemoveUser.
func Leave(state Membership, userID string) (Membership, bool, error) {
	if !contains(state.Users, userID) {
		return state, false, errors.BadRequest("User is not a member of this chat", nil)
	}
	return shrink(state, userID)
}

func shrink(state Membership, userID string) (Membership, bool, error) {
	next := Membership{
		Users:  remove(state.Users, userID),
		Admins: remove(state.Admins, userID),
	}
	if len(next.Users) == 0 {
		return next, true, nil
	}
	if len(next.Users) == 1 && len(next.Admins) == 0 {
		next.Admins = append(next.Admins, next.Users[0])
	}
	return next, false, nil
}

// SetAdmins replaces the admin set. The requester must be an admin of the
// current state, and every new admin must already be a member.
func SetAdmins(state Membership, newAdmins []string, requesterID string) (Membership, error) {
	if !contains(state.Admins, requesterID) {
		return state, errors.Forbidden("You have no permission to update the group chat", nil)
	}
	for _, id := range newAdmins {
		if !contains(state.Users, id) {
			return state, errors.BadRequest("Admins must be members of the chat", nil)
		}
	}
	return NewMembership(state.Users, newAdmins), nil
}

// SetUsers replaces the member set verbatim. Admins are deliberately left
// untouched even when they fall outside the new member set; RemoveUser and
// Leave are the transitions that trim the admin set.
func SetUsers(state Membership, newUsers []string, requesterID string) (Membership, error) {
	if !contains(state.Admins, requesterID) {
		return state, errors.Forbidden("You have no permission to update the group chat", nil)
	}
	return NewMembership(newUsers, state.Admins), nil
}

// SameMembers reports whether two member sets hold the same ids regardless of
// order. Used for the direct-chat uniqueness check.
func SameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range a {
		if !contains(b, id) {
			return false
		}
	}
	return true
}
