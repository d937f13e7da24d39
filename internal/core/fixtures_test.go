package core_test

// user is a toy object whose methods live in func fields so they can be wrapped.
type user struct {
	fname string
	lname string

	SetFirstName func(fname string) *user
	SetLastName  func(lname string) *user
	GetFullName  func() string

	unexported func()
}

func newUser() *user {
	u := &user{fname: "<fname>", lname: "<lname>"}

	u.SetFirstName = func(fname string) *user {
		u.fname = fname
		return u
	}
	u.SetLastName = func(lname string) *user {
		u.lname = lname
		return u
	}
	u.GetFullName = func() string {
		return u.fname + " " + u.lname
	}
	u.unexported = func() {}

	return u
}

// newStore returns a key-value store exposed as a map of funcs, and its backing data.
func newStore() (store map[string]any, data map[string]any) {
	data = map[string]any{}
	store = map[string]any{
		"get": func(key string) any {
			return data[key]
		},
		"set": func(key string, value any) {
			data[key] = value
		},
		"size": 0,
	}

	return store, data
}

func incrementTotal(store map[string]any, key string, amount int) int {
	get, _ := store["get"].(func(string) any)
	set, _ := store["set"].(func(string, any))

	total, _ := get(key).(int)
	total += amount
	set(key, total)

	return total
}

func myFunction(condition bool, callback func()) {
	if condition {
		callback()
	}
}
