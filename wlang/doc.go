// Package wlang implements the W scripting language: a line-oriented
// language for short scripts run from `.w` files or an interactive session.
//   - Statements end at a newline or `;`; `#` starts a comment.
//   - Assignment in prefix form (`int 5 'x'`, `bool true 'b'`) or postfix
//     form (`3 + 2 = 'sum'`).
//   - `show`, `if cond stmt else stmt`, `while cond ... done`, and
//     parameterless `func name ... done` / `call name`.
//   - Numeric and string arrays with `leng`, `push`, `pop`, and `get`.
//   - Host built-ins: `input`, `time`, `date`, `datetime`, `sleep`,
//     `random`, `write`, `read`, `clear`, `clear-output`, and `END`.
//
// All variables and functions live in one flat Env owned by a Session. A
// fault in one statement is reported and the next statement still runs;
// only lexical and parse errors stop a source from loading. Each while loop
// runs its body at most Config.MaxIterations times.
package wlang
