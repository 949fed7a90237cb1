package loom

import "testing"

func TestBoxSplitsLeftoverEvenly(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	// 200-high vertical box: one unconstrained child and one fixed at 40.
	box := NewBox(Vertical)
	box.SetHint(PropH, Fixed(200))
	box.SetHint(PropW, Fixed(100))
	root.AddChild(box)

	flex := NewWidget()
	fixed := NewWidget()
	fixed.SetHint(PropH, Fixed(40))
	box.AddChild(flex)
	box.AddChild(fixed)
	settle(a)

	approx(t, "flexible child height", flex.Geometry().H, 160)
	approx(t, "fixed child height", fixed.Geometry().H, 40)
	approx(t, "flexible child y", flex.Geometry().Y, 0)
	approx(t, "fixed child y", fixed.Geometry().Y, 160)

	// Total child extent fills the box regardless of the split.
	total := flex.Geometry().H + fixed.Geometry().H
	approx(t, "children sum", total, 200)
}

func TestBoxSpacingAndPadding(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	box := NewBox(Horizontal)
	box.SetHint(PropW, Fixed(320))
	box.SetHint(PropH, Fixed(100))
	box.SetSpacing(10).SetPadding(5)
	root.AddChild(box)

	c1, c2, c3 := NewWidget(), NewWidget(), NewWidget()
	box.AddChild(c1)
	box.AddChild(c2)
	box.AddChild(c3)
	settle(a)

	// inner width 310, spacing 20 => 290 split three ways.
	share := (320.0 - 2*5 - 2*10) / 3
	approx(t, "first width", c1.Geometry().W, share)
	approx(t, "first x", c1.Geometry().X, 5)
	approx(t, "second x", c2.Geometry().X, 5+share+10)
	approx(t, "cross fill", c1.Geometry().H, 90)
}

func TestBoxCentersAllFixedChildren(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	box := NewBox(Vertical)
	box.SetHint(PropH, Fixed(300))
	box.SetHint(PropW, Fixed(100))
	root.AddChild(box)

	c1 := NewWidget()
	c1.SetHint(PropH, Fixed(50))
	c2 := NewWidget()
	c2.SetHint(PropH, Fixed(50))
	box.AddChild(c1)
	box.AddChild(c2)
	settle(a)

	// 200 leftover, run centered: first child starts at 100.
	approx(t, "first y", c1.Geometry().Y, 100)
	approx(t, "second y", c2.Geometry().Y, 150)
}

func TestBoxGrowsToContent(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	box := NewBox(Vertical)
	box.SetHint(PropH, FitContent())
	box.SetHint(PropW, Fixed(100))
	box.SetSpacing(10)
	root.AddChild(box)

	for i := 0; i < 3; i++ {
		c := NewWidget()
		c.SetHint(PropH, Fixed(30))
		box.AddChild(c)
	}
	settle(a)

	approx(t, "content-sized height", box.Geometry().H, 3*30+2*10)
}

func TestGridPlacement(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	// Six children in three columns: two rows by ceiling division; the
	// fifth child (index 4) sits at row 1, column 1.
	grid := NewGrid(3)
	grid.SetHint(PropW, Fixed(300))
	grid.SetHint(PropH, Fixed(200))
	root.AddChild(grid)

	kids := make([]*Widget, 6)
	for i := range kids {
		kids[i] = NewWidget()
		grid.AddChild(kids[i])
	}
	settle(a)

	approx(t, "cell width", kids[0].Geometry().W, 100)
	approx(t, "cell height", kids[0].Geometry().H, 100)
	approx(t, "child 4 x", kids[4].Geometry().X, 100)
	approx(t, "child 4 y", kids[4].Geometry().Y, 100)

	for i, k := range kids {
		g := k.Geometry()
		if g.W < 0 || g.H < 0 {
			t.Errorf("child %d has negative extent %+v", i, g)
		}
	}
}

func TestGridCeilingDivision(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	grid := NewGrid(4)
	grid.SetHint(PropW, Fixed(400))
	grid.SetHint(PropH, Fixed(300))
	root.AddChild(grid)

	// Seven children in four columns need two rows.
	kids := make([]*Widget, 7)
	for i := range kids {
		kids[i] = NewWidget()
		grid.AddChild(kids[i])
	}
	settle(a)

	approx(t, "row height", kids[0].Geometry().H, 150)
	approx(t, "last child row", kids[6].Geometry().Y, 150)
	approx(t, "last child col", kids[6].Geometry().X, 200)
}

func TestGridColumnMajor(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	grid := NewGridRows(2)
	grid.SetHint(PropW, Fixed(300))
	grid.SetHint(PropH, Fixed(200))
	root.AddChild(grid)

	kids := make([]*Widget, 5)
	for i := range kids {
		kids[i] = NewWidget()
		grid.AddChild(kids[i])
	}
	settle(a)

	// Five children in two rows => three columns; child 2 starts the
	// second column.
	approx(t, "child 2 x", kids[2].Geometry().X, 100)
	approx(t, "child 2 y", kids[2].Geometry().Y, 0)
	approx(t, "child 3 y", kids[3].Geometry().Y, 100)
}

func TestGridHintedTracks(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	grid := NewGrid(2)
	grid.SetHint(PropW, Fixed(300))
	grid.SetHint(PropH, Fixed(100))
	root.AddChild(grid)

	wide := NewWidget()
	wide.SetHint(PropW, Fixed(200))
	plain := NewWidget()
	grid.AddChild(wide)
	grid.AddChild(plain)
	settle(a)

	approx(t, "hinted column", wide.Geometry().W, 200)
	approx(t, "remaining column", plain.Geometry().W, 100)
	approx(t, "remaining column x", plain.Geometry().X, 200)
}

func TestNotebookLaysOutActivePageOnly(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	nb := NewNotebook()
	nb.SetHint(PropW, Fixed(400))
	nb.SetHint(PropH, Fixed(300))
	root.AddChild(nb)

	page0, page1 := NewWidget(), NewWidget()
	nb.AddChild(page0)
	nb.AddChild(page1)
	settle(a)

	approx(t, "active page width", page0.Geometry().W, 400)
	if page1.Geometry().W != 0 {
		t.Errorf("inactive page was laid out: %+v", page1.Geometry())
	}

	nb.SetActivePage(1)
	settle(a)
	approx(t, "page 1 width after switch", page1.Geometry().W, 400)
}

func TestNotebookDrawsActivePageOnly(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	nb := NewNotebook()
	nb.SetHint(PropW, Fixed(400))
	nb.SetHint(PropH, Fixed(300))
	root.AddChild(nb)

	nb.AddChild(NewLabel("zero"))
	nb.AddChild(NewLabel("one"))
	settle(a)

	var c recordCanvas
	a.Draw(&c)
	if len(c.texts) != 1 || c.texts[0] != "zero" {
		t.Errorf("drawn texts = %v, want [zero]", c.texts)
	}
}

func TestLayoutCoalesces(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)
	settle(a)

	// Many invalidations, one pass: after the frame nothing is pending.
	for i := 0; i < 10; i++ {
		root.MarkNeedsLayout()
	}
	a.Update(16)
	if root.NeedsLayout() {
		t.Error("layout still pending after a frame")
	}
}

func BenchmarkLayoutPass(b *testing.B) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	// A screenful of nested boxes and grids: 10 rows of 10 cells, each
	// cell a small grid of leaves.
	outer := NewBox(Vertical)
	outer.SetHint(PropW, ParentW(1))
	outer.SetHint(PropH, ParentH(1))
	root.AddChild(outer)
	for r := 0; r < 10; r++ {
		row := NewBox(Horizontal)
		outer.AddChild(row)
		for c := 0; c < 10; c++ {
			cell := NewGrid(2)
			row.AddChild(cell)
			for k := 0; k < 4; k++ {
				cell.AddChild(NewWidget())
			}
		}
	}
	settle(a)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.MarkNeedsLayout()
		a.Update(16)
	}
}

func TestDegenerateGeometryDrawsNothing(t *testing.T) {
	a := newTestApp()
	root := NewWidget()
	a.SetRoot(root)

	// Over-subscribed box: fixed children exceed the container.
	box := NewBox(Vertical)
	box.SetHint(PropH, Fixed(50))
	box.SetHint(PropW, Fixed(100))
	root.AddChild(box)

	big := NewWidget().SetBackground(ColorWhite)
	big.SetHint(PropH, Fixed(80))
	squeezed := NewWidget().SetBackground(ColorWhite)
	box.AddChild(big)
	box.AddChild(squeezed)
	settle(a)

	if squeezed.Geometry().H > 0 {
		t.Fatalf("expected squeezed child to go degenerate, got %+v", squeezed.Geometry())
	}
	var c recordCanvas
	a.Draw(&c)
	for _, r := range c.fills {
		if r.H <= 0 || r.W <= 0 {
			t.Errorf("degenerate rect was drawn: %+v", r)
		}
	}
}
