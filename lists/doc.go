/*
Package lists reads the plain lists of strings pdknockr works with, such as
domains, resolvers, and noise labels. A list either comes from a file with one
item per line, or from a literal comma-separated value. Items are trimmed and
blank lines skipped, as are lines starting with “#”.

Additionally, [FetchResolvers] downloads a list of public DNS resolvers, such as
the one published at [DefaultPublicResolversURL].
*/
package lists
