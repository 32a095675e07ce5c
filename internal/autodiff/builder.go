package autodiff

import "math"

// Source creates a leaf holding x.
func (s *Scope) Source(x float64) Value {
	return s.push(x, Source{})
}

// Add returns a + b.
func (s *Scope) Add(a, b Value) Value {
	return s.push(a.Data()+b.Data(), Add{}, a, b)
}

// Mul returns a * b.
func (s *Scope) Mul(a, b Value) Value {
	return s.push(a.Data()*b.Data(), Mul{}, a, b)
}

// Exp returns e^x.
func (s *Scope) Exp(x Value) Value {
	return s.push(math.Exp(x.Data()), Exp{}, x)
}

// Pow returns x^k. The exponent is a constant and receives no gradient.
func (s *Scope) Pow(x Value, k float64) Value {
	return s.push(math.Pow(x.Data(), k), Pow{K: k}, x)
}

// Relu returns max(x, 0).
func (s *Scope) Relu(x Value) Value {
	return s.push(math.Max(x.Data(), 0), Relu{}, x)
}

// Log returns ln(x).
func (s *Scope) Log(x Value) Value {
	return s.push(math.Log(x.Data()), Log{}, x)
}

// The operations below are compositions of the primitives above and need no
// backward rule of their own.

// Neg returns -a, built as a * (-1).
func (s *Scope) Neg(a Value) Value {
	return s.Mul(a, s.Source(-1))
}

// Sub returns a - b, built as a + (-b).
func (s *Scope) Sub(a, b Value) Value {
	return s.Add(a, s.Neg(b))
}

// Div returns a / b, built as a * b^-1.
func (s *Scope) Div(a, b Value) Value {
	return s.Mul(a, s.Pow(b, -1))
}

// Square returns x^2.
func (s *Scope) Square(x Value) Value {
	return s.Pow(x, 2)
}

// Sum folds Add left to right over xs. The empty sum is Source(0).
func (s *Scope) Sum(xs ...Value) Value {
	if len(xs) == 0 {
		return s.Source(0)
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = s.Add(acc, x)
	}
	return acc
}

// Max returns the larger of a and b as b + relu(a - b). On a tie the whole
// gradient goes to b.
func (s *Scope) Max(a, b Value) Value {
	return s.Add(b, s.Relu(s.Sub(a, b)))
}

// Sigmoid returns 1 / (1 + e^-x).
func (s *Scope) Sigmoid(x Value) Value {
	return s.Pow(s.Add(s.Source(1), s.Exp(s.Neg(x))), -1)
}

// Tanh returns 2*sigmoid(2x) - 1.
func (s *Scope) Tanh(x Value) Value {
	twoX := s.Mul(x, s.Source(2))
	return s.Sub(s.Mul(s.Sigmoid(twoX), s.Source(2)), s.Source(1))
}
