package match_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL

	"github.com/toejough/standin/match"
)

type person struct {
	FirstName string
	LastName  string
	age       int
}

func TestBeAny(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	for _, value := range []any{nil, 0, "x", person{}, []int{1}} {
		ok, err := match.BeAny.Match(value)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ok).To(BeTrue())
	}

	g.Expect(fmt.Sprint(match.BeAny)).To(Equal("<any>"))
}

func TestEqual(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := match.Equal([]string{"a", "b"})

	ok, err := m.Match([]string{"a", "b"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, _ = m.Match([]string{"a"})
	g.Expect(ok).To(BeFalse())
	g.Expect(m.FailureMessage([]string{"a"})).To(ContainSubstring(`expected []string{"a", "b"}`))
}

func TestSatisfy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errNegative := errors.New("negative")
	positive := match.Satisfy(func(n int) error {
		if n < 0 {
			return errNegative
		}

		return nil
	})

	ok, err := positive.Match(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = positive.Match(-3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(positive.FailureMessage(-3)).To(ContainSubstring("negative"))

	_, err = positive.Match("three")
	g.Expect(err).To(MatchError(ContainSubstring("type mismatch")))
}

func TestSubset_Structs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mike := person{FirstName: "Mike", LastName: "Erickson", age: 40}

	ok, err := match.Subset(map[string]any{"FirstName": "Mike"}).Match(mike)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	ok, err = match.Subset(map[string]any{"LastName": HavePrefix("Eri")}).Match(&mike)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue(), "pointers are followed and values may be matchers")

	m := match.Subset(map[string]any{"FirstName": "Kira", "age": 40})
	ok, err = m.Match(mike)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(m.FailureMessage(mike)).To(ContainSubstring(`FirstName: expected "Kira", got "Mike"`))
	g.Expect(m.FailureMessage(mike)).To(ContainSubstring("age is missing"), "unexported fields are invisible")
}

func TestSubset_Maps(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := match.Subset(map[string]any{"fname": "Kira", "lname": match.BeAny})

	ok, err := m.Match(map[string]any{"fname": "Kira", "lname": "Erickson", "extra": 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	partial := map[string]string{"fname": "Kira"}
	ok, err = m.Match(partial)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(m.FailureMessage(partial)).To(ContainSubstring("lname is missing"))

	g.Expect(fmt.Sprint(m)).To(Equal(`{fname: "Kira", lname: match.anyMatcher{}}`))
}

func TestSubset_RejectsOtherKinds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := match.Subset(map[string]any{"x": 1})

	for _, value := range []any{nil, 3, "x", (*person)(nil), map[int]any{1: 1}} {
		_, err := m.Match(value)
		g.Expect(err).To(MatchError(ContainSubstring("expected a map or struct")), "%#v", value)
	}
}

func TestMatchers_SharedAcrossGoroutines(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	even := match.Satisfy(func(n int) error {
		if n%2 != 0 {
			return fmt.Errorf("%d is odd", n)
		}

		return nil
	})
	named := match.Subset(map[string]any{"FirstName": "Mike"})

	const goroutines = 20

	results := make([]bool, goroutines)
	messages := make([]string, goroutines)

	var wg sync.WaitGroup

	for i := range goroutines {
		wg.Go(func() {
			evenOK, _ := even.Match(i)
			nameOK, _ := named.Match(person{FirstName: "Mike"})
			results[i] = evenOK && nameOK

			if !evenOK {
				messages[i] = even.FailureMessage(i)
			}
		})
	}

	wg.Wait()

	for i := range goroutines {
		g.Expect(results[i]).To(Equal(i%2 == 0))

		if i%2 != 0 {
			g.Expect(messages[i]).To(ContainSubstring(fmt.Sprintf("%d is odd", i)))
		}
	}
}
