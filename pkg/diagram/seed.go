package diagram

// Seed builds the three-node demo diagram: First -> Second -> Third.
func Seed(opts ...Option) *Scene {
	s := NewScene(opts...)
	first := s.AddNode("First", 20, 20)
	second := s.AddNode("Second", 60, 200)
	third := s.AddNode("Third", 150, 140)

	// Both endpoints are fresh nodes in s, so Connect cannot fail.
	_, _ = s.Connect(first, second)
	_, _ = s.Connect(second, third)
	return s
}
