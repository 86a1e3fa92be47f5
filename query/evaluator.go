package query

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/inkindex/ruindex/index"
)

// List is a sorted ascending sequence of distinct doc ids, the evaluator's
// sole value type.
type List []uint32

// Eval compiles postfix into a result List by walking it with a stack of
// Lists, exactly as lab7's eval_rpn does: TERM looks up and materializes
// a posting list (a dictionary miss pushes an empty List, never an
// error), NOT/AND/OR pop and push via sorted-merge set operations. A
// malformed postfix stream — one that does not leave exactly one List on
// the stack — is not an error either; it reports an empty result, per
// spec.md §4.9.
func Eval(view *index.View, postfix []Token) (List, error) {
	var stack []List

	pop := func() List {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, tk := range postfix {
		switch tk.Kind {
		case Term:
			stack = append(stack, listFromTerm(view, tk.Text))
		case Not:
			if len(stack) < 1 {
				return List{}, nil
			}
			a := pop()
			stack = append(stack, opNot(universe(view.DocsCount()), a))
		case And:
			if len(stack) < 2 {
				return List{}, nil
			}
			b, a := pop(), pop()
			stack = append(stack, opAnd(a, b))
		case Or:
			if len(stack) < 2 {
				return List{}, nil
			}
			b, a := pop(), pop()
			stack = append(stack, opOr(a, b))
		}
	}

	if len(stack) != 1 {
		return List{}, nil
	}
	return stack[0], nil
}

func listFromTerm(view *index.View, term []byte) List {
	off, df, found := view.Find(term)
	if !found || df == 0 {
		return List{}
	}
	postings, err := view.Postings(off, df)
	if err != nil {
		return List{}
	}
	return List(postings)
}

// universe builds ALL = [1..docsCount] via a roaring.Bitmap range-add and
// a single sorted dump — the same container index.docTermSet uses for its
// per-document term-id set, reused here as the NOT operator's working set
// instead of a hand-allocated loop.
func universe(docsCount uint64) List {
	if docsCount == 0 {
		return List{}
	}
	bm := roaring.New()
	bm.AddRange(1, docsCount+1)
	out := make(List, 0, docsCount)
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, it.Next())
	}
	return out
}

func opAnd(a, b List) List {
	out := make(List, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func opOr(a, b List) List {
	out := make(List, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func opNot(all, a List) List {
	out := make(List, 0, len(all))
	i, j := 0, 0
	for i < len(all) && j < len(a) {
		switch {
		case all[i] == a[j]:
			i++
			j++
		case all[i] < a[j]:
			out = append(out, all[i])
			i++
		default:
			j++
		}
	}
	out = append(out, all[i:]...)
	return out
}
