package standin_test

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL

	"github.com/toejough/standin"
	"github.com/toejough/standin/match"
)

type user struct {
	fname, lname string

	SetFirstName func(string) *user
	SetLastName  func(string) *user
	GetFullName  func() string
}

func newUser() *user {
	u := &user{}
	u.SetFirstName = func(fname string) *user { u.fname = fname; return u }
	u.SetLastName = func(lname string) *user { u.lname = lname; return u }
	u.GetFullName = func() string { return u.fname + " " + u.lname }

	return u
}

func TestPublicAPI_SpyStubMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	u := newUser()

	spy, err := standin.Wrap(u, "SetFirstName")
	g.Expect(err).NotTo(HaveOccurred())

	stub, err := standin.WrapStub(u, "SetLastName")
	g.Expect(err).NotTo(HaveOccurred())

	userMock := standin.NewMock(u)
	exp, err := userMock.Expects("GetFullName")
	g.Expect(err).NotTo(HaveOccurred())
	exp.Once().Returns("Mocked Name")

	standin.RestoreOnCleanup(t, spy, stub, userMock)

	u.SetFirstName("Mike")
	u.SetLastName("Erickson")

	g.Expect(u.GetFullName()).To(Equal("Mocked Name"))
	g.Expect(u.fname).To(Equal("Mike"))
	g.Expect(u.lname).To(BeEmpty())

	g.Expect(standin.AssertCalledOnce(spy)).To(Succeed())
	g.Expect(standin.AssertCalledWith(stub, "Erickson")).To(Succeed())
	g.Expect(standin.AssertCallCount(stub, 1)).To(Succeed())

	standin.VerifyT(t, userMock)
}

func TestPublicAPI_ErrorKinds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := standin.Wrap(newUser(), "Missing")
	g.Expect(errors.Is(err, standin.ErrTarget)).To(BeTrue())

	g.Expect(standin.NewSpy(nil).Restore()).To(MatchError(standin.ErrRestore))

	_, err = standin.NewStub().LastCall()
	g.Expect(err).To(MatchError(standin.ErrNoSuchCall))

	g.Expect(standin.AssertCalled(standin.NewStub())).To(MatchError(standin.ErrAssertion))
	g.Expect(standin.AssertNotCalled(standin.NewStub())).To(Succeed())
}

func TestPublicAPI_MatchValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, _ := standin.MatchValue(map[string]any{"Name": "Mike", "Age": 40}, match.Subset(map[string]any{"Name": "Mike"}))
	g.Expect(ok).To(BeTrue())

	ok, msg := standin.MatchValue(3, 4)
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).NotTo(BeEmpty())
}

func ExampleNewSpy() {
	spy := standin.NewSpy(func(a, b int) int { return a + b }, standin.WithName("add"))
	add := standin.As[func(int, int) int](spy)

	fmt.Println(add(2, 3))
	fmt.Println(spy.CallCount(), spy.CalledWith(2, 3))

	// Output:
	// 5
	// 1 true
}

func ExampleNewStub() {
	stub := standin.NewStub().Returns(42)

	fmt.Println(stub.Call("anything"))

	// Output:
	// [42]
}

func ExampleNewStubFor() {
	errNotFound := errors.New("not found")
	stub := standin.NewStubFor((func(string) (int, error))(nil)).Throws(errNotFound)
	lookup := standin.As[func(string) (int, error)](stub)

	_, err := lookup("key")
	fmt.Println(err)

	// Output:
	// not found
}

func ExampleMock_Verify() {
	store := map[string]any{
		"get": func(string) any { return nil },
		"set": func(string, any) {},
	}

	storeMock := standin.NewMock(store)

	get, _ := storeMock.Expects("get")
	get.WithArgs("data").Returns(0)

	set, _ := storeMock.Expects("set")
	set.Once().WithArgs("data", 23)

	total, _ := store["get"].(func(string) any)("data").(int)
	store["set"].(func(string, any))("data", total+23)

	fmt.Println(storeMock.Verify())
	fmt.Println(storeMock.Restore())

	// Output:
	// <nil>
	// <nil>
}
