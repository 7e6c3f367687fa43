package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeListCodeBlocks() string {
	return `Lists the Python functions, methods and classes that a docstring audit would review, without calling a model.

USE WHEN:
- Previewing which blocks an audit will send for critique
- Finding functions and classes that have no docstring
- Estimating the size of an audit before running it

INTERPRETING RESULTS:
- Blocks are listed per file: top-level functions and classes first, then methods class by class
- Nested functions are part of their enclosing block and are not listed separately
- has_docstring=false blocks cannot be auto-fixed; their docstring must be added by hand
- tokens is a rough estimate of the block size sent to the model
- Files that fail to parse are left out

METRICS RETURNED:
- Per block: file, name, kind (function, method, class), class, start_line, end_line, has_docstring, tokens`
}

func describeAuditDocstrings() string {
	return `Asks a language model to review the docstring of every Python function, method and class against a documentation style, and optionally rewrites the docstrings in place.

USE WHEN:
- Checking that docstrings follow numpydoc, Google or Sphinx conventions
- Finding docstrings that no longer match a function's parameters or return value
- Bulk-fixing docstrings before a release (auto_fix=true)

INTERPRETING RESULTS:
- error: the docstring is wrong or missing required sections
- warning: the docstring is acceptable but could be improved
- solution: the proposed docstring or full corrected block
- fix=applied means the file was rewritten, proposed means auto_fix was off, skipped means the block had no docstring to replace
- Directories named tests are skipped by default
- Files that fail to parse are reported as skipped

METRICS RETURNED:
- report: the human-readable per-block notices and the summary line
- result.files: per-file blocks with critique, tally and fix status
- result.tally: total errors and warnings`
}
