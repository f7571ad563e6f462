package biplan

// This file implements spec §4.F: structured control flow via rescanning the
// token stream rather than a jump table. Grounded on original_source's
// if_call/else_call/skip_block/for_call/next_call/while_call/redo_call/
// break_call/continue_call. Preserve the rescan discipline exactly (spec §9:
// "do not try to cache matching positions without invalidation rules").

// ifCall implements IF: evaluate the condition, consume the trailing CR, and
// either fall through into the then-branch or skip it.
func (ip *Interpreter) ifCall() {
	ip.dec.Advance() // IF
	cond := ip.relation()
	ip.ignore(CR)
	if cond == 0 {
		ip.skipBlock()
	}
}

// elseCall runs when execution reaches an ELSE by normal flow, meaning the
// preceding IF's condition was true and its then-branch just finished: the
// else body is always skipped in that case.
func (ip *Interpreter) elseCall() {
	ip.dec.Advance() // ELSE
	ip.skipBlock()
}

// skipBlock advances past the current then/else body, stopping at a
// matching ENDIF (depth 0) or an ELSE seen at depth 1, counting nested IF
// (+1) and ENDIF (-1). The ENDIF or ELSE it stops at is consumed, so
// execution resumes just after it.
func (ip *Interpreter) skipBlock() {
	depth := 1
	for {
		switch ip.dec.Peek() {
		case ENDOFINPUT:
			ip.fatal(ErrBlock)
			return
		case IF:
			depth++
		case ENDIF:
			depth--
			if depth == 0 {
				ip.dec.Advance()
				return
			}
		case ELSE:
			if depth == 1 {
				ip.dec.Advance()
				return
			}
		}
		ip.dec.Advance()
	}
}

// forCall implements FOR: push a cycle frame bounding the loop variable
// between its initial and terminal values, saving the variable's prior value
// for restoration on exit.
func (ip *Interpreter) forCall() {
	ip.dec.Advance() // FOR
	ip.ignore(L_RPARENT)
	ip.expect(ADDRESS)
	vi := Cell(ip.payloadID())
	ip.ignore(COMMA)
	from := ip.expression()
	ip.ignore(COMMA)
	to := ip.expression()
	ip.ignore(R_RPARENT)
	ip.ignore(CR)

	if ip.cycleID >= CD {
		ip.fatal(ErrCycleMax)
		return
	}

	saved := ip.getVariable(vi)
	ip.setVariable(vi, from)

	ip.cycles[ip.cycleID] = cycleFrame{
		address:    ip.dec.Position(),
		direction:  from < to,
		varID:      uint8(vi),
		savedValue: saved,
		to:         to,
	}
	ip.cycleID++
}

// nextCall implements NEXT: continue the innermost for loop while its bound
// is not yet reached, otherwise restore the loop variable and pop the frame.
func (ip *Interpreter) nextCall() {
	ip.dec.Advance() // NEXT
	if ip.cycleID == 0 {
		ip.fatal(ErrCycleNext)
		return
	}
	frame := &ip.cycles[ip.cycleID-1]
	vi := Cell(frame.varID)
	v := ip.getVariable(vi)

	continuing := frame.direction && v < frame.to || !frame.direction && v > frame.to
	if continuing {
		if frame.direction {
			ip.setVariable(vi, v+1)
		} else {
			ip.setVariable(vi, v-1)
		}
		ip.dec.Goto(frame.address)
		return
	}

	ip.setVariable(vi, frame.savedValue)
	ip.cycleID--
}

// whileCall implements WHILE: re-evaluated every time control reaches it,
// either by falling into it the first time or by jumping back via REDO. The
// WHILE opcode's own position is the body address REDO jumps back to.
func (ip *Interpreter) whileCall() {
	bodyAddr := ip.dec.Position()
	ip.dec.Advance() // WHILE
	cond := ip.relation()
	ip.ignore(CR)

	if cond != 0 {
		if ip.cycleID >= CD {
			ip.fatal(ErrWhileMax)
			return
		}
		ip.cycles[ip.cycleID] = cycleFrame{
			address: bodyAddr,
			varID:   NoVariable,
		}
		ip.cycleID++
		return
	}

	depth := 1
	for {
		switch ip.dec.Peek() {
		case ENDOFINPUT:
			ip.fatal(ErrBlock)
			return
		case WHILE:
			depth++
		case REDO:
			depth--
			if depth == 0 {
				ip.dec.Advance()
				return
			}
		}
		ip.dec.Advance()
	}
}

// redoCall implements REDO: jump back to the saved WHILE opcode and
// re-evaluate the condition there, which either re-enters the body or pops
// the frame via whileCall's own skip path.
func (ip *Interpreter) redoCall() {
	if ip.cycleID == 0 {
		ip.fatal(ErrRedo)
		return
	}
	frame := ip.cycles[ip.cycleID-1]
	ip.cycleID--
	ip.dec.Goto(frame.address)
	ip.whileCall()
}

// breakCall scans forward to the current cycle's terminator (NEXT or REDO)
// and pops the frame; continueCall scans the same way but stops just before
// the terminator, leaving it for the loop's own NEXT/REDO handler to see on
// the following statement.
func (ip *Interpreter) breakCall() {
	ip.dec.Advance() // BREAK
	ip.scanToCycleEnd(true)
	if ip.cycleID == 0 {
		ip.fatal(ErrBlock)
		return
	}
	ip.cycleID--
}

func (ip *Interpreter) continueCall() {
	ip.dec.Advance() // CONTINUE
	ip.scanToCycleEnd(false)
}

// scanToCycleEnd walks forward counting nested WHILE/FOR (+1) and NEXT/REDO
// (-1), stopping at the current loop's own terminator. If consume is true
// the terminator opcode itself is advanced past; otherwise the decoder is
// left positioned exactly at it.
func (ip *Interpreter) scanToCycleEnd(consume bool) {
	depth := 1
	for {
		switch ip.dec.Peek() {
		case ENDOFINPUT:
			ip.fatal(ErrBlock)
			return
		case WHILE, FOR:
			depth++
			ip.dec.Advance()
			continue
		case NEXT, REDO:
			depth--
			if depth == 0 {
				if consume {
					ip.dec.Advance()
				}
				return
			}
			ip.dec.Advance()
			continue
		}
		ip.dec.Advance()
	}
}
