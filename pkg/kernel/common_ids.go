package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// AppID identifies a tenant. Apps are provisioned externally; every user
// belongs to exactly one app, and the same email may exist under several
// apps as unrelated accounts.
type AppID string

func NewAppID(id string) AppID { return AppID(id) }
func (a AppID) String() string { return string(a) }
func (a AppID) IsEmpty() bool  { return string(a) == "" }
