package resolve

import "testing"

func TestResolvedSetInsert(t *testing.T) {
	var set ResolvedSet
	isNew, i := set.Insert("A")
	if !isNew || i != 0 {
		t.Fatalf("Insert on empty set = (%v, %v), expected (true, 0)", isNew, i)
	}
	set.Add("A", 100)
	set.Add("B", 200)
	isNew, i = set.Insert("A")
	if isNew || i != 0 {
		t.Fatalf("Insert of existing = (%v, %v), expected (false, 0)", isNew, i)
	}
	isNew, i = set.Insert("C")
	if !isNew || i != 2 {
		t.Fatalf("Insert of new = (%v, %v), expected (true, 2)", isNew, i)
	}
}

func TestResolvedSetAddAccumulates(t *testing.T) {
	var set ResolvedSet
	set.Add("A", 100)
	set.Add("B", 50)
	set.Add("A", 200)
	if len(set) != 2 {
		t.Fatalf("set has %v entries, expected 2", len(set))
	}
	if set[0].Address != "A" || set[0].Amount != 300 {
		t.Fatalf("set[0] = %+v, expected A/300", set[0])
	}
	if set[1].Address != "B" || set[1].Amount != 50 {
		t.Fatalf("set[1] = %+v, expected B/50", set[1])
	}
}
