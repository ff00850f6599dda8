package storage

import "strings"

// Action 파일/폴더 작업 종류
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionRename Action = "rename"
)

// Permissions is the explicit access context of one principal. Admins may do
// anything. Everyone else needs the action granted and the target inside one
// of their mounts ("<uid>:/path/"); no mounts means no access.
type Permissions struct {
	Admin   bool     `json:"admin" yaml:"admin"`
	Actions []Action `json:"actions" yaml:"actions"`
	Mounts  []string `json:"mounts" yaml:"mounts"`
}

// AdminPermissions grants everything
func AdminPermissions() Permissions {
	return Permissions{Admin: true}
}

// Allows reports whether action on identifier of storage uid is permitted
func (p Permissions) Allows(uid int, action Action, identifier string) bool {
	if p.Admin {
		return true
	}
	if !p.hasAction(action) {
		return false
	}
	for _, mount := range p.Mounts {
		mountUID, mountPath, ok := SplitCombinedIdentifier(mount)
		if !ok || mountUID != uid {
			continue
		}
		mountPath = NormalizeFolder(mountPath)
		if strings.HasPrefix(identifier, mountPath) || NormalizeFolder(identifier) == mountPath {
			return true
		}
	}
	return false
}

func (p Permissions) hasAction(action Action) bool {
	for _, granted := range p.Actions {
		if granted == action {
			return true
		}
	}
	return false
}
