package mcpserver

// NoteFormat describes how notes are stored so that LLM consumers can read
// tags and links out of note text.
const NoteFormat = `# Noter Note Format

Each note is one UTF-8 file directly inside the notes directory.

- The file name is the note title followed by ` + "`.md`" + `. Titles never contain
  path separators and never start with a dot.
- The file content is the note text, stored exactly as typed. There is no
  frontmatter.
- A tag is any whitespace-delimited word starting with ` + "`#`" + `, e.g. ` + "`#work`" + `.
  Tag searches accept the name with or without the ` + "`#`" + `.
- A link is written ` + "`[label](target)`" + `, where target is the title of another
  note. A trailing ` + "`.md`" + ` on the target is ignored.
`
