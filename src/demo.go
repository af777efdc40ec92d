package main

import (
	"whilec/src/ir"
)

// demoResult is the integer variable the demonstration program leaves its answer in.
const demoResult = "total"

// demoProgram builds the syntax tree of the built-in demonstration program:
//
//	var counter int = 0
//	var total int = 0
//	var greeting string = "hello"
//	var same bool = greeting == "hello"
//	do
//	    counter := counter + 1
//	    total := total + counter * 2
//	while counter < 10
//	if same then total := total - 1 else total := -total
//
// The front end that would normally produce this tree from source text is not part of this compiler.
func demoProgram() (*ir.Block, error) {
	counter, err := ir.NewIdentifier(ir.Int, "counter")
	if err != nil {
		return nil, err
	}
	total, err := ir.NewIdentifier(ir.Int, demoResult)
	if err != nil {
		return nil, err
	}
	greeting, err := ir.NewIdentifier(ir.String, "greeting")
	if err != nil {
		return nil, err
	}
	same, err := ir.NewIdentifier(ir.Bool, "same")
	if err != nil {
		return nil, err
	}

	root := ir.NewBlock()
	declare := func(ident *ir.Identifier, init ir.Expression) error {
		d, err := ir.NewVarDecl(ident, init)
		if err != nil {
			return err
		}
		root.Append(d)
		return nil
	}
	if err := declare(counter, ir.NewConstantInt(0)); err != nil {
		return nil, err
	}
	if err := declare(total, ir.NewConstantInt(0)); err != nil {
		return nil, err
	}
	if err := declare(greeting, ir.NewConstantString("hello")); err != nil {
		return nil, err
	}
	eq, err := ir.NewBinaryOp(greeting, ir.Eq, ir.NewConstantString("hello"))
	if err != nil {
		return nil, err
	}
	if err := declare(same, eq); err != nil {
		return nil, err
	}

	// Loop body.
	inc, err := ir.NewBinaryOp(counter, ir.Sum, ir.NewConstantInt(1))
	if err != nil {
		return nil, err
	}
	incAssign, err := ir.NewVarAssign(counter, inc)
	if err != nil {
		return nil, err
	}
	double, err := ir.NewBinaryOp(counter, ir.Mult, ir.NewConstantInt(2))
	if err != nil {
		return nil, err
	}
	acc, err := ir.NewBinaryOp(total, ir.Sum, double)
	if err != nil {
		return nil, err
	}
	accAssign, err := ir.NewVarAssign(total, acc)
	if err != nil {
		return nil, err
	}
	cond, err := ir.NewBinaryOp(counter, ir.Les, ir.NewConstantInt(10))
	if err != nil {
		return nil, err
	}
	loop, err := ir.NewWhileLoop(cond, ir.NewBlock(incAssign, accAssign))
	if err != nil {
		return nil, err
	}
	root.Append(loop)

	// Conditional.
	dec, err := ir.NewBinaryOp(total, ir.Sub, ir.NewConstantInt(1))
	if err != nil {
		return nil, err
	}
	decAssign, err := ir.NewVarAssign(total, dec)
	if err != nil {
		return nil, err
	}
	neg, err := ir.NewUnaryOp(ir.Minus, total)
	if err != nil {
		return nil, err
	}
	negAssign, err := ir.NewVarAssign(total, neg)
	if err != nil {
		return nil, err
	}
	branch, err := ir.NewIfStatement(same, ir.NewBlock(decAssign), ir.NewBlock(negAssign))
	if err != nil {
		return nil, err
	}
	root.Append(branch)
	return root, nil
}
