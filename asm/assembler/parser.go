package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-systems/retrocore/cpu"
)

// Parser represents the assembly parser
type Parser struct {
	lexer     *Lexer
	assembler *Assembler
	tokens    []Token
	position  int
}

// Line represents a parsed assembly line
type Line struct {
	Label       string
	Instruction string
	Directive   string
	Operand     string
	AddressMode cpu.AddrKind
	Value       uint16
	SymbolName  string
}

func NewParser(lexer *Lexer, assembler *Assembler) *Parser {
	return &Parser{lexer: lexer, assembler: assembler}
}

func (p *Parser) parseOperand() string {
	var operand strings.Builder
	for p.position < len(p.tokens) {
		operand.WriteString(p.tokens[p.position].Value)
		p.position++
	}
	return operand.String()
}

// supports reports whether mnemonic has an encoding for kind, per the
// cpu package's own opcode table.
func supports(mnemonic string, kind cpu.AddrKind) bool {
	_, ok := cpu.Encode(mnemonic, kind)
	return ok
}

func (p *Parser) detectAddressMode(line *Line) error {
	operand := strings.TrimSpace(line.Operand)

	if operand == "" {
		switch line.Instruction {
		case "LSR", "ASL", "ROL", "ROR":
			if supports(line.Instruction, cpu.KindAccumulator) {
				line.AddressMode = cpu.KindAccumulator
				return nil
			}
		}
		if supports(line.Instruction, cpu.KindImplied) {
			line.AddressMode = cpu.KindImplied
			return nil
		}
		return fmt.Errorf("instruction %s requires an operand", line.Instruction)
	}

	if operand == "A" || operand == "a" {
		if supports(line.Instruction, cpu.KindAccumulator) {
			line.AddressMode = cpu.KindAccumulator
			return nil
		}
		return fmt.Errorf("instruction %s does not support accumulator mode", line.Instruction)
	}

	operand = strings.ReplaceAll(operand, " ,", ",")
	operand = strings.ReplaceAll(operand, ", ", ",")
	operand = strings.ReplaceAll(operand, "( ", "(")
	operand = strings.ReplaceAll(operand, " )", ")")

	if strings.HasPrefix(operand, "#") {
		if supports(line.Instruction, cpu.KindImmediate) {
			line.AddressMode = cpu.KindImmediate
			line.Value = p.parseValue(operand[1:])
			return nil
		}
		return fmt.Errorf("instruction %s does not support immediate mode", line.Instruction)
	}

	if strings.HasPrefix(operand, "(") {
		if strings.HasSuffix(operand, ",X)") {
			if supports(line.Instruction, cpu.KindIndexedIndirect) {
				line.AddressMode = cpu.KindIndexedIndirect
				base := operand[1 : len(operand)-3]
				if !isNumeric(base) {
					line.SymbolName = base
				}
				line.Value = p.parseValue(base)
				return nil
			}
			return fmt.Errorf("instruction %s does not support indexed-indirect mode", line.Instruction)
		}
		if strings.HasSuffix(operand, "),Y") {
			if supports(line.Instruction, cpu.KindIndirectIndexed) {
				line.AddressMode = cpu.KindIndirectIndexed
				base := operand[1 : len(operand)-3]
				if !isNumeric(base) {
					line.SymbolName = base
				}
				line.Value = p.parseValue(base)
				return nil
			}
			return fmt.Errorf("instruction %s does not support indirect-indexed mode", line.Instruction)
		}
		if strings.HasSuffix(operand, ")") {
			if supports(line.Instruction, cpu.KindIndirect) {
				line.AddressMode = cpu.KindIndirect
				base := operand[1 : len(operand)-1]
				if !isNumeric(base) {
					line.SymbolName = base
				}
				line.Value = p.parseValue(base)
				return nil
			}
			return fmt.Errorf("instruction %s does not support indirect mode", line.Instruction)
		}
	}

	if strings.HasSuffix(operand, ",X") {
		base := operand[:len(operand)-2]
		value := p.parseValue(base)

		if value < 0x100 && supports(line.Instruction, cpu.KindZeroPageX) {
			line.AddressMode = cpu.KindZeroPageX
			if !isNumeric(base) {
				line.SymbolName = base
			}
			line.Value = value
			return nil
		}
		if supports(line.Instruction, cpu.KindAbsoluteX) {
			line.AddressMode = cpu.KindAbsoluteX
			if !isNumeric(base) {
				line.SymbolName = base
			}
			line.Value = value
			return nil
		}
		return fmt.Errorf("instruction %s does not support X-indexed addressing", line.Instruction)
	}

	if strings.HasSuffix(operand, ",Y") {
		base := operand[:len(operand)-2]
		value := p.parseValue(base)

		if value < 0x100 && supports(line.Instruction, cpu.KindZeroPageY) {
			line.AddressMode = cpu.KindZeroPageY
			if !isNumeric(base) {
				line.SymbolName = base
			}
			line.Value = value
			return nil
		}
		if supports(line.Instruction, cpu.KindAbsoluteY) {
			line.AddressMode = cpu.KindAbsoluteY
			if !isNumeric(base) {
				line.SymbolName = base
			}
			line.Value = value
			return nil
		}
		return fmt.Errorf("instruction %s does not support Y-indexed addressing", line.Instruction)
	}

	value := p.parseValue(operand)

	if value < 0x100 && supports(line.Instruction, cpu.KindZeroPage) {
		line.AddressMode = cpu.KindZeroPage
		if !isNumeric(operand) {
			line.SymbolName = operand
		}
		line.Value = value
		return nil
	}

	if supports(line.Instruction, cpu.KindAbsolute) {
		line.AddressMode = cpu.KindAbsolute
		if !isNumeric(operand) {
			line.SymbolName = operand
		}
		line.Value = value
		return nil
	}

	if supports(line.Instruction, cpu.KindRelative) {
		line.AddressMode = cpu.KindRelative
		if !isNumeric(operand) {
			line.SymbolName = operand
		}
		line.Value = value
		return nil
	}

	return fmt.Errorf("no valid addressing mode found for instruction %s with operand %s",
		line.Instruction, line.Operand)
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") || strings.HasPrefix(s, "%") {
		return true
	}
	_, err := strconv.ParseUint(s, 10, 16)
	return err == nil
}

func (p *Parser) parseValue(s string) uint16 {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "$") {
		if val, err := strconv.ParseUint(s[1:], 16, 16); err == nil {
			return uint16(val)
		}
	}
	if strings.HasPrefix(s, "%") {
		if val, err := strconv.ParseUint(s[1:], 2, 16); err == nil {
			return uint16(val)
		}
	}
	if p.assembler.symbols != nil {
		if symbol, exists := p.assembler.symbols[s]; exists {
			return symbol.Value
		}
	}
	if val, err := strconv.ParseUint(s, 10, 16); err == nil {
		return uint16(val)
	}
	return 0
}

func (p *Parser) ParseLine() (*Line, error) {
	p.tokens = nil

	for {
		token := p.lexer.NextToken()
		if token.Type == EOF {
			if len(p.tokens) == 0 {
				return nil, nil
			}
			break
		}
		if token.Type == EOL {
			break
		}
		if token.Type != COMMENT {
			p.tokens = append(p.tokens, token)
		}
	}

	line := &Line{}
	if len(p.tokens) == 0 {
		return line, nil
	}
	p.position = 0

	if p.position < len(p.tokens) {
		token := p.tokens[p.position]
		if token.Type == LABEL {
			line.Label = token.Value
			p.position++
			if p.position < len(p.tokens) && p.tokens[p.position].Type == OPERAND {
				p.position++
			}
		}
	}

	if p.position < len(p.tokens) {
		token := p.tokens[p.position]
		if token.Type == DIRECTIVE {
			line.Directive = strings.ToLower(token.Value)
			p.position++
			line.Operand = p.parseOperand()
		} else if token.Type == INSTRUCTION {
			line.Instruction = strings.ToUpper(token.Value)
			p.position++
			line.Operand = p.parseOperand()
			if err := p.detectAddressMode(line); err != nil {
				return nil, err
			}
		}
	}

	return line, nil
}

// DirectiveHandler defines a function type for directive processing
type DirectiveHandler func(a *Assembler, operand string) error

var directiveHandlers = map[string]DirectiveHandler{
	".org":  handleOrg,
	".byte": handleByte,
	".word": handleWord,
}

func handleOrg(a *Assembler, operand string) error {
	value := parseNumber(operand)
	if a.currentPass == 1 {
		a.pc = value
	} else {
		if len(a.output) > 0 {
			for count := value - a.pc; count > 0; count-- {
				a.output = append(a.output, 0)
			}
		}
		a.pc = value
	}
	return nil
}

func handleByte(a *Assembler, operand string) error {
	values := parseByteList(operand)
	if a.currentPass == 2 {
		a.output = append(a.output, values...)
	}
	a.pc += uint16(len(values))
	return nil
}

func handleWord(a *Assembler, operand string) error {
	values := parseWordList(operand)
	if a.currentPass == 2 {
		for _, v := range values {
			a.output = append(a.output, uint8(v&0xFF), uint8(v>>8))
		}
	}
	a.pc += uint16(len(values) * 2)
	return nil
}

func parseByteList(operand string) []uint8 {
	parts := strings.Split(operand, ",")
	values := make([]uint8, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "\"") && strings.HasSuffix(part, "\"") {
			str := part[1 : len(part)-1]
			for _, ch := range str {
				values = append(values, uint8(ch))
			}
		} else {
			values = append(values, uint8(parseNumber(part)))
		}
	}
	return values
}

func parseWordList(operand string) []uint16 {
	parts := strings.Split(operand, ",")
	values := make([]uint16, 0, len(parts))
	for _, part := range parts {
		values = append(values, parseNumber(strings.TrimSpace(part)))
	}
	return values
}

func parseNumber(s string) uint16 {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		if val, err := strconv.ParseUint(s[1:], 16, 16); err == nil {
			return uint16(val)
		}
	}
	if strings.HasPrefix(s, "%") {
		if val, err := strconv.ParseUint(s[1:], 2, 16); err == nil {
			return uint16(val)
		}
	}
	if val, err := strconv.ParseUint(s, 10, 16); err == nil {
		return uint16(val)
	}
	return 0
}
