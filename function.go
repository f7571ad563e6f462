package biplan

// This file implements spec §4.C (load-time definition indexing) and §4.G
// (user-function call machinery): caller-save parameter binding, the
// return-address stack, and return value propagation. Grounded on
// original_source/src/BIPLAN.h's index_function_definitions/
// find_definition/find_function_end/find_param_list_length/function_call/
// return_call.

// indexFunctionDefinitions performs the one full-stream scan spec §4.C
// describes, run once from Initialize. definitions[0] is left at its zero
// value as an intentional sentinel slot (§9 open question, resolved in
// SPEC_FULL.md by following index_function_definitions's l=1 starting
// index): real entries occupy definitions[1:defCount].
func (ip *Interpreter) indexFunctionDefinitions() {
	start := ip.dec.Position()
	defer ip.dec.Goto(start)

	l := 1
	for ip.dec.Peek() != ENDOFINPUT {
		if ip.dec.Peek() != FUN_DEF {
			ip.dec.Advance()
			continue
		}
		ip.dec.Advance() // FUN_DEF + id byte
		id := ip.payloadID()

		var params [ParamsMax]uint8
		for i := range params {
			params[i] = ParamsMax
		}

		ip.expect(L_RPARENT)
		n := 0
		for ip.dec.Peek() != R_RPARENT {
			if n >= ParamsMax-1 {
				ip.fatal(ErrParameters)
				return
			}
			ip.expect(ADDRESS)
			params[n] = ip.payloadID()
			n++
			ip.ignore(COMMA)
		}
		ip.expect(R_RPARENT)
		ip.dec.Advance() // two positions past the closing R_RPARENT

		if l >= FM {
			continue
		}
		if !ip.definitionExists(id, l) {
			ip.definitions[l] = definition{
				address: ip.dec.Position(),
				id:      id,
				params:  params,
			}
			l++
		}
	}
	ip.defCount = l
}

func (ip *Interpreter) definitionExists(id uint8, upTo int) bool {
	for i := 1; i < upTo; i++ {
		if ip.definitions[i].id == id {
			return true
		}
	}
	return false
}

func (ip *Interpreter) findDefinition(id uint8) *definition {
	for i := 1; i < ip.defCount; i++ {
		if ip.definitions[i].id == id {
			return &ip.definitions[i]
		}
	}
	return nil
}

// paramListLength reports a definition's declared parameter count: the
// offset of the first ParamsMax sentinel entry in params. indexFunctionDefinitions
// never writes more than ParamsMax-1 real entries, so this always terminates
// within the array (spec §9's resolved PARAMS_MAX-exclusivity question).
func paramListLength(def *definition) int {
	for i, id := range def.params {
		if id == ParamsMax {
			return i
		}
	}
	return ParamsMax
}

// findFunctionEnd scans forward from a FUNCTION call site, counting
// L_RPARENT/R_RPARENT, and returns the position of the call's own matching
// R_RPARENT without consuming anything (the decoder is restored to its
// entry position before returning).
func (ip *Interpreter) findFunctionEnd() Addr {
	save := ip.dec.Position()
	defer ip.dec.Goto(save)

	ip.dec.Advance() // FUNCTION + id byte
	depth := 0
	for {
		switch ip.dec.Peek() {
		case ENDOFINPUT:
			ip.fatal(ErrFunctionEnd)
			return 0
		case L_RPARENT:
			depth++
		case R_RPARENT:
			depth--
			if depth == 0 {
				return ip.dec.Position()
			}
		}
		ip.dec.Advance()
	}
}

// functionCall implements spec §4.G steps 1-6: it returns with the decoder
// positioned at the call's own matching R_RPARENT (unconsumed, mirroring
// original_source's function_call/factor pairing: the caller — factor's
// FUNCTION case or statement's FUNCTION case — consumes it afterward).
func (ip *Interpreter) functionCall() Cell {
	ip.funCycleID = ip.cycleID
	returnAddr := ip.findFunctionEnd()

	ip.dec.Advance() // FUNCTION + id byte
	id := ip.payloadID()

	def := ip.findDefinition(id)
	if def == nil {
		ip.fatal(ErrFunctionCall)
		return 0
	}
	if ip.funID >= FD {
		ip.fatal(ErrFunctionCall)
		return 0
	}

	depth := ip.funID
	frame := &ip.functions[depth]
	frame.returnAddr = returnAddr
	for i := range frame.params {
		frame.params[i] = paramSlot{id: NoVariable}
	}

	p := paramListLength(def)
	ip.expect(L_RPARENT)
	for i := 0; i < p; i++ {
		if i > 0 {
			ip.expect(COMMA)
		}
		v := Cell(def.params[i])
		frame.params[i] = paramSlot{id: uint8(v), value: ip.getVariable(v)}
		arg := ip.relation()
		ip.setVariable(v, arg)
	}
	ip.expect(R_RPARENT)

	ip.funID++
	ip.dec.Goto(def.address)

	ip.logf("call %v @%v", id, def.address)
	pop := ip.withLogIndent()
	for ip.funID > depth {
		ip.statement()
	}
	pop()
	return ip.retval
}

// returnCall implements spec §4.G step 7: evaluate an optional return value,
// unwind the caller-save bindings of the topmost call frame, and jump back
// to the call site.
func (ip *Interpreter) returnCall() {
	if ip.funID == 0 {
		ip.fatal(ErrReturn)
		return
	}
	ip.dec.Advance() // RETURN

	var v Cell
	if ip.dec.Peek() != CR {
		v = ip.relation()
	}
	ip.ignore(CR)

	ip.funID--
	frame := &ip.functions[ip.funID]
	for i := range frame.params {
		if frame.params[i].id == NoVariable {
			break
		}
		ip.setVariable(Cell(frame.params[i].id), frame.params[i].value)
		frame.params[i] = paramSlot{id: NoVariable}
	}

	ip.dec.Goto(frame.returnAddr)
	ip.cycleID = ip.funCycleID
	ip.retval = v
}
