package critique

import (
	"fmt"
	"sort"
	"strings"
)

// Style is a docstring convention the model is asked to enforce.
type Style struct {
	Name    string
	Display string
	Example string
}

var styles = map[string]Style{
	"numpydoc": {
		Name:    "numpydoc",
		Display: "numpydoc",
		Example: `def add(a, b=0):
    """
    Add two numbers.

    Return the arithmetic sum of ` + "`a`" + ` and ` + "`b`" + `. Both values are
    left unchanged.

    Parameters
    ----------
    a : int
        The first number.
    b : int, optional
        The second number, by default 0.

    Returns
    -------
    int
        The sum of a and b.

    Examples
    --------
    >>> add(1, 2)
    3
    """
    return a + b`,
	},
	"google": {
		Name:    "google",
		Display: "Google",
		Example: `def add(a, b=0):
    """Add two numbers.

    Return the arithmetic sum of a and b. Both values are left unchanged.

    Args:
        a (int): The first number.
        b (int, optional): The second number. Defaults to 0.

    Returns:
        int: The sum of a and b.

    Examples:
        >>> add(1, 2)
        3
    """
    return a + b`,
	},
	"sphinx": {
		Name:    "sphinx",
		Display: "Sphinx (reStructuredText)",
		Example: `def add(a, b=0):
    """Add two numbers.

    Return the arithmetic sum of a and b. Both values are left unchanged.

    :param a: The first number.
    :type a: int
    :param b: The second number, defaults to 0.
    :type b: int, optional
    :return: The sum of a and b.
    :rtype: int
    """
    return a + b`,
	},
}

// DefaultStyle is the convention used when none is configured.
const DefaultStyle = "numpydoc"

// LookupStyle returns the style registered under name.
func LookupStyle(name string) (Style, error) {
	if name == "" {
		name = DefaultStyle
	}
	s, ok := styles[strings.ToLower(name)]
	if !ok {
		return Style{}, fmt.Errorf("unknown docstring style %q (available: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

// StyleNames lists the registered styles in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
