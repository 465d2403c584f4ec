package services

// NOVA processing classes are driven by the worst ingredient, except
// that mixing raw (1) and culinary (2) ingredients escalates to 3 on
// its own.

// novaPoints maps a NOVA class to its 0-100 score contribution.
var novaPoints = map[int]int{
	1: 100,
	2: 80,
	3: 50,
	4: 20,
}

// ClassifyNova reduces the matched ingredients' NOVA classes to the
// product's class, or 0 when the list is empty.
func ClassifyNova(classes []int) int {
	var has1, has2, has3, has4 bool
	for _, c := range classes {
		switch c {
		case 1:
			has1 = true
		case 2:
			has2 = true
		case 3:
			has3 = true
		case 4:
			has4 = true
		}
	}

	switch {
	case has4:
		return 4
	case has3:
		return 3
	case has1 && has2:
		return 3
	case has2:
		return 2
	case has1:
		return 1
	}
	return 0
}

// NovaScoreFor converts a product's NOVA class to its score
// contribution. ok is false for class 0 (unknown).
func NovaScoreFor(class int) (int, bool) {
	points, ok := novaPoints[class]
	return points, ok
}
