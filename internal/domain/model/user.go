package model

// User carries the visitor identity and profile fields reported by the
// application. Custom holds operator-defined attributes addressable through
// user variable mappings.
type User struct {
	UserID            string
	Email             string
	Phone             string
	FirstName         string
	LastName          string
	MiddleName        string
	FullName          string
	BirthDate         string
	Sex               string
	IsSubscribed      bool
	IsSubscribedBySms bool
	Custom            map[string]any
}

// Doc renders the user as an event-document section. Falsy fields are
// omitted so that extraction and pruning behave uniformly downstream.
func (u *User) Doc() map[string]any {
	if u == nil {
		return nil
	}
	d := map[string]any{}
	put(d, "userId", u.UserID)
	put(d, "email", u.Email)
	put(d, "phone", u.Phone)
	put(d, "firstName", u.FirstName)
	put(d, "lastName", u.LastName)
	put(d, "middleName", u.MiddleName)
	put(d, "fullName", u.FullName)
	put(d, "birthDate", u.BirthDate)
	put(d, "sex", u.Sex)
	put(d, "isSubscribed", u.IsSubscribed)
	put(d, "isSubscribedBySms", u.IsSubscribedBySms)
	for k, v := range u.Custom {
		put(d, k, v)
	}
	return d
}
