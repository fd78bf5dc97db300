package picklist

import "errors"

// Sentinel kinds for picklist errors. These allow errors.Is from callers.
var (
	ErrInvalidRef       = errors.New("invalid entry reference")
	ErrUnattached       = errors.New("entry is not in a list")
	ErrSelfAnchor       = errors.New("entry cannot anchor itself")
	ErrNilList          = errors.New("nil list")
	ErrForeignList      = errors.New("list belongs to another group")
	ErrBlankName        = errors.New("list name must not be blank")
	ErrListExists       = errors.New("list already exists")
	ErrListNotFound     = errors.New("list not found")
	ErrInvalidPersisted = errors.New("invalid persisted picklist")
	ErrInvalidTeam      = errors.New("team number must be positive")
)
