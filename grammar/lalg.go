package grammar

// Special LALG non-terminals matched by token class rather than lexeme.
const (
	Identifier = "<identifier>"
	Number     = "<number>"
)

var lalgProductions = []Production{
	MustProduction("<program>", []string{"program", Identifier, ";", "<block>", "."}),
	MustProduction("<block>", []string{"<variable_declaration_part>", "<subroutine_declaration_part>", "<compound_command>"}),

	MustProduction("<variable_declaration_part>",
		[]string{"<variable_declaration>", ";", "<variable_declaration'>"},
		[]string{Epsilon},
	),
	MustProduction("<variable_declaration'>",
		[]string{"<variable_declaration>", ";", "<variable_declaration'>"},
		[]string{Epsilon},
	),
	MustProduction("<variable_declaration>", []string{"<type>", "<identifier_list>"}),
	MustProduction("<type>", []string{"int"}, []string{"boolean"}),
	MustProduction("<identifier_list>", []string{Identifier, "<identifier_list'>"}),
	MustProduction("<identifier_list'>",
		[]string{",", Identifier, "<identifier_list'>"},
		[]string{Epsilon},
	),

	MustProduction("<subroutine_declaration_part>",
		[]string{"<procedure_declaration>", ";", "<procedure_declaration'>"},
		[]string{Epsilon},
	),
	MustProduction("<procedure_declaration'>",
		[]string{"<procedure_declaration>", ";", "<procedure_declaration'>"},
		[]string{Epsilon},
	),
	MustProduction("<procedure_declaration>", []string{"procedure", Identifier, "<formal_parameters>", ";", "<block>"}),
	MustProduction("<formal_parameters>",
		[]string{"(", "<formal_parameter_section>", "<formal_parameters'>", ")"},
		[]string{Epsilon},
	),
	MustProduction("<formal_parameters'>",
		[]string{";", "<formal_parameter_section>", "<formal_parameters'>"},
		[]string{Epsilon},
	),
	MustProduction("<formal_parameter_section>", []string{"<var>", "<identifier_list>", ":", "<type>"}),
	MustProduction("<var>", []string{"var"}, []string{Epsilon}),

	MustProduction("<compound_command>", []string{"begin", "<command>", "<compound_command'>", "end"}),
	MustProduction("<compound_command'>",
		[]string{";", "<command>", "<compound_command'>"},
		[]string{Epsilon},
	),
	MustProduction("<command>",
		[]string{Identifier, "<command'>"},
		[]string{"<conditional_command>"},
		[]string{"<repetitive_command>"},
		[]string{"<compound_command>"},
		[]string{Epsilon},
	),
	MustProduction("<command'>", []string{"<assignment'>"}, []string{"<procedure_call'>"}),
	MustProduction("<assignment'>", []string{"<variable'>", ":=", "<expression>"}),
	MustProduction("<procedure_call'>",
		[]string{"(", "<expression_list>", ")"},
		[]string{Epsilon},
	),
	MustProduction("<conditional_command>", []string{"if", "<expression>", "then", "<command>", "<else>"}),
	MustProduction("<else>", []string{"else", "<command>"}, []string{Epsilon}),
	MustProduction("<repetitive_command>", []string{"while", "<expression>", "do", "<command>"}),

	MustProduction("<expression>", []string{"<simple_expression>", "<expression'>"}),
	MustProduction("<expression'>",
		[]string{"<relation>", "<simple_expression>"},
		[]string{Epsilon},
	),
	MustProduction("<relation>",
		[]string{"="}, []string{"<>"}, []string{"<"}, []string{"<="}, []string{">="}, []string{">"},
	),
	MustProduction("<simple_expression>", []string{"<op>", "<term>", "<simple_expression'>"}),
	MustProduction("<op>", []string{"+"}, []string{"-"}, []string{Epsilon}),
	MustProduction("<simple_expression'>",
		[]string{"<op2>", "<term>", "<simple_expression'>"},
		[]string{Epsilon},
	),
	MustProduction("<op2>", []string{"+"}, []string{"-"}, []string{"or"}),
	MustProduction("<term>", []string{"<factor>", "<term'>"}),
	MustProduction("<term'>",
		[]string{"<op3>", "<factor>", "<term'>"},
		[]string{Epsilon},
	),
	MustProduction("<op3>", []string{"*"}, []string{"div"}, []string{"and"}),
	MustProduction("<factor>",
		[]string{"<variable>"},
		[]string{Number},
		[]string{"(", "<expression>", ")"},
		[]string{"not", "<factor>"},
	),
	MustProduction("<variable>", []string{Identifier, "<variable'>"}),
	MustProduction("<variable'>",
		[]string{"[", "<expression>", "]"},
		[]string{Epsilon},
	),
	MustProduction("<expression_list>", []string{"<expression>", "<expression_list'>"}),
	MustProduction("<expression_list'>",
		[]string{",", "<expression>", "<expression_list'>"},
		[]string{Epsilon},
	),

	{Left: Number, Right: [][]string{{"[0-9]+"}}, Final: true},
	{Left: Identifier, Right: [][]string{{"[a-zA-Z_][a-zA-Z_0-9]*"}}, Final: true},
}

// LALG returns a fresh copy of the LALG reference grammar. Start symbol is "<program>".
func LALG() *Grammar {
	return New("LALG", lalgProductions...).Copy()
}
